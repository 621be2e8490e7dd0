// Where: cli/internal/command/zipdeploy.go
// What: Zip deploy command.
// Why: Publish a packaged function app through the SCM zip deploy endpoint.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/poruru/fnsdk/cli/internal/infra/artifactstore"
	"github.com/poruru/fnsdk/cli/internal/infra/config"
	"github.com/poruru/fnsdk/cli/internal/infra/ui"
	"github.com/poruru/fnsdk/cli/internal/infra/zipdeploy"
	"github.com/poruru/fnsdk/cli/internal/version"
)

var (
	errCredentialsConflict  = errors.New("--azure-ad cannot be combined with --username")
	errArchiveNotConfigured = errors.New("artifact store is not configured")
	errTokensNotConfigured  = errors.New("azure ad token provider is not configured")
)

// ZipDeployCmd uploads a zip archive.
type ZipDeployCmd struct {
	Zip              string        `arg:"" name:"zip" help:"Zip archive to deploy"`
	PublishURL       string        `name:"publish-url" help:"SCM base URL (overrides --site-name)"`
	SiteName         string        `name:"site-name" help:"Function app name"`
	Username         string        `name:"username" env:"FNSDK_DEPLOY_USERNAME" help:"Deployment user name"`
	Password         string        `name:"password" env:"FNSDK_DEPLOY_PASSWORD" help:"Deployment password"`
	AzureAD          bool          `name:"azure-ad" help:"Authenticate with an Azure AD bearer token"`
	UserAgentVersion string        `name:"user-agent-version" help:"Version reported in the user agent"`
	ArchiveBucket    string        `name:"archive-bucket" help:"Also upload the zip to this S3 bucket"`
	ArchiveEndpoint  string        `name:"archive-endpoint" help:"S3-compatible endpoint for the archive bucket"`
	ArchivePrefix    string        `name:"archive-prefix" help:"Key prefix inside the archive bucket"`
	Timeout          time.Duration `name:"timeout" help:"Overall status polling limit" default:"3m"`
}

func runZipDeploy(cli CLI, deps Dependencies) int {
	cmd := cli.ZipDeploy
	cwd, err := deps.Getwd()
	if err != nil {
		return exitWithError(deps.ErrOut, fmt.Errorf("get working directory: %w", err))
	}
	cfg, _, err := config.Resolve(cli.Config, cwd)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	defaults := cfg.Deploy

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zipPath := cleanArg(cmd.Zip)
	logger := newLogger(cli, deps, false)
	console := ui.NewWithOptions(deps.Out, false, !cli.NoColor && ui.ColorAllowed(deps.Out))

	archive := artifactstore.Options{
		Bucket:   firstNonEmpty(cmd.ArchiveBucket, defaults.Archive.Bucket),
		Endpoint: firstNonEmpty(cmd.ArchiveEndpoint, defaults.Archive.Endpoint),
		Prefix:   firstNonEmpty(cmd.ArchivePrefix, defaults.Archive.Prefix),
		Region:   defaults.Archive.Region,
	}
	var archived string
	if archive.Bucket != "" {
		if deps.NewArchive == nil {
			return exitWithError(deps.ErrOut, errArchiveNotConfigured)
		}
		store, err := deps.NewArchive(ctx, archive)
		if err != nil {
			return exitWithError(deps.ErrOut, err)
		}
		archived, err = store.Put(ctx, filepath.Base(zipPath), zipPath)
		if err != nil {
			return exitWithError(deps.ErrOut, err)
		}
		logger.Info(fmt.Sprintf("Archived %s to %s", zipPath, archived))
	}

	deployer := &zipdeploy.Deployer{
		HTTP:    deps.HTTPClient,
		Logger:  logger,
		Timeout: cmd.Timeout,
	}
	creds := zipdeploy.Credentials{Username: cmd.Username, Password: cmd.Password}
	if cmd.AzureAD {
		if creds.Username != "" && creds.Username != zipdeploy.AzureADUserName {
			return exitWithError(deps.ErrOut, errCredentialsConflict)
		}
		creds = zipdeploy.Credentials{Username: zipdeploy.AzureADUserName}
	}
	if needsToken(creds) {
		if deps.NewTokens == nil {
			return exitWithError(deps.ErrOut, errTokensNotConfigured)
		}
		tokens, err := deps.NewTokens()
		if err != nil {
			return exitWithError(deps.ErrOut, err)
		}
		deployer.Tokens = tokens
	}

	result, err := deployer.Deploy(ctx, zipdeploy.Request{
		ZipPath: zipPath,
		Target: zipdeploy.Target{
			PublishURL:     firstNonEmpty(cmd.PublishURL, defaults.PublishURL),
			SiteName:       firstNonEmpty(cmd.SiteName, defaults.SiteName),
			SCMURLTemplate: defaults.SCMURLTemplate,
		},
		Credentials:      creds,
		UserAgentVersion: firstNonEmpty(cmd.UserAgentVersion, defaults.UserAgentVersion, version.GetVersion()),
	})
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	console.BlockStart("🚀", "Zip deploy")
	console.Item("Endpoint", result.URL)
	console.Item("Status", result.Status)
	if result.StatusText != "" {
		console.Item("Detail", result.StatusText)
	}
	if archived != "" {
		console.Item("Archive", archived)
	}
	console.BlockEnd()
	return 0
}

// needsToken reports whether the credentials ask for an Azure AD token.
func needsToken(creds zipdeploy.Credentials) bool {
	if creds.Username == "" {
		return creds.Password == ""
	}
	return creds.Username == zipdeploy.AzureADUserName && creds.Password == ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
