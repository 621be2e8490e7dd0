// Where: cli/internal/infra/azauth/provider.go
// What: Azure AD token provider for zip deploy.
// Why: Sites with basic auth disabled accept a bearer token from the default credential chain.
package azauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

// ManagementScope is the audience accepted by the SCM endpoint.
const ManagementScope = "https://management.core.windows.net/.default"

var errCredentialMissing = errors.New("azure credential is not configured")

// Provider acquires tokens from an Azure credential.
type Provider struct {
	Credential azcore.TokenCredential
	Scopes     []string
}

var _ ports.TokenProvider = (*Provider)(nil)

// NewDefaultProvider uses Azure's DefaultAzureCredential chain.
// This automatically tries environment variables, workload identity,
// managed identity and the Azure CLI in order.
func NewDefaultProvider() (*Provider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}
	return &Provider{Credential: cred, Scopes: []string{ManagementScope}}, nil
}

// NewServicePrincipalProvider authenticates with a client secret.
func NewServicePrincipalProvider(tenantID, clientID, clientSecret string) (*Provider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("azure service principal requires tenantID, clientID, and clientSecret")
	}
	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return &Provider{Credential: cred, Scopes: []string{ManagementScope}}, nil
}

// Token implements ports.TokenProvider.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if p == nil || p.Credential == nil {
		return "", errCredentialMissing
	}
	scopes := p.Scopes
	if len(scopes) == 0 {
		scopes = []string{ManagementScope}
	}
	token, err := p.Credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: scopes})
	if err != nil {
		return "", fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, nil
}
