// Where: cli/internal/infra/zipdeploy/client.go
// What: Zip deploy upload and deployment status polling.
// Why: Publish a packaged function app and report whether the site accepted it.
package zipdeploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const (
	// AzureADUserName marks the password as a bearer token.
	AzureADUserName = "00000000-0000-0000-0000-000000000000"

	userAgentName = "functions-core-tools"

	defaultPollInterval = 3 * time.Second
	defaultRetryCount   = 3
	defaultRetryDelay   = time.Second
	defaultTimeout      = 3 * time.Minute
)

var (
	errZipMissing       = errors.New("zip file not found")
	errDeploymentFailed = errors.New("zip deployment failed")
)

// Credentials authenticate against the SCM endpoint.
type Credentials struct {
	Username string
	Password string
}

// Request describes one zip deploy.
type Request struct {
	ZipPath          string
	Target           Target
	Credentials      Credentials
	UserAgentVersion string
}

// Result reports the final deployment state.
type Result struct {
	URL        string
	Location   string
	Status     Status
	StatusText string
}

// Deployer uploads archives. Zero durations fall back to the SCM defaults.
type Deployer struct {
	HTTP         *http.Client
	Logger       ports.Logger
	Tokens       ports.TokenProvider
	PollInterval time.Duration
	RetryCount   int
	RetryDelay   time.Duration
	Timeout      time.Duration
}

// Deploy uploads the archive and polls the returned deployment until it settles.
// Without a Location header the accepted upload counts as success.
func (d *Deployer) Deploy(ctx context.Context, req Request) (Result, error) {
	if _, err := os.Stat(req.ZipPath); err != nil {
		return Result{}, fmt.Errorf("%w: %s", errZipMissing, req.ZipPath)
	}
	endpoint, err := req.Target.URL()
	if err != nil {
		return Result{}, err
	}
	creds, err := d.credentials(ctx, req.Credentials)
	if err != nil {
		return Result{}, err
	}
	userAgent := userAgentName + "/" + req.UserAgentVersion
	d.info(fmt.Sprintf("Publishing %s to %s...", req.ZipPath, endpoint))

	location, err := d.upload(ctx, endpoint, req.ZipPath, creds, userAgent)
	if err != nil {
		return Result{URL: endpoint}, err
	}
	d.info("Zip file uploaded.")
	result := Result{URL: endpoint, Location: location, Status: StatusSuccess}
	if location == "" {
		return result, nil
	}

	result.Status, result.StatusText = d.poll(ctx, location, creds, userAgent)
	if result.Status != StatusSuccess {
		return result, fmt.Errorf("%w: %s ended with status %s", errDeploymentFailed, endpoint, result.Status)
	}
	d.info("Zip deployment succeeded.")
	return result, nil
}

func (d *Deployer) credentials(ctx context.Context, creds Credentials) (Credentials, error) {
	if d.Tokens == nil || (creds.Username != "" && creds.Username != AzureADUserName) {
		return creds, nil
	}
	if creds.Username == AzureADUserName && creds.Password != "" {
		return creds, nil
	}
	token, err := d.Tokens.Token(ctx)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: AzureADUserName, Password: token}, nil
}

func (d *Deployer) upload(ctx context.Context, endpoint, zipPath string, creds Credentials, userAgent string) (string, error) {
	file, err := os.Open(zipPath)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?isAsync=true", file)
	if err != nil {
		return "", fmt.Errorf("create zip deploy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/zip")
	authorize(req, creds, userAgent)

	resp, err := d.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("zip deploy to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("zip deploy to %s failed with HTTP status %d", endpoint, resp.StatusCode)
	}
	return resp.Header.Get("Location"), nil
}

// poll refreshes the status until it is terminal or the overall timeout passes.
func (d *Deployer) poll(ctx context.Context, location string, creds Credentials, userAgent string) (Status, string) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	d.info("Polling deployment status...")
	status, text := StatusPending, ""
	for !status.Terminal() {
		var err error
		status, text, err = d.fetchStatus(ctx, location, creds, userAgent)
		if err != nil {
			if ctx.Err() != nil {
				return status, text
			}
			return StatusUnknown, err.Error()
		}
		d.info(fmt.Sprintf("Deployment status: %s", status))
		if status.Terminal() {
			break
		}
		select {
		case <-ctx.Done():
			return status, text
		case <-time.After(d.pollInterval()):
		}
	}
	return status, text
}

type statusBody struct {
	Status     any    `json:"status"`
	StatusText string `json:"status_text"`
}

// fetchStatus GETs the deployment with bounded retries on transport errors.
// Responses other than 200/202, or without a readable status, map to Unknown.
func (d *Deployer) fetchStatus(ctx context.Context, location string, creds Credentials, userAgent string) (Status, string, error) {
	var resp *http.Response
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		authorize(req, creds, userAgent)
		r, err := d.client().Do(req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(d.retryDelay()), uint64(d.retryCount())),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return StatusUnknown, "", fmt.Errorf("get deployment status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return StatusUnknown, "", nil
	}
	var body statusBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return StatusUnknown, "", nil
	}
	status, ok := parseStatus(body.Status)
	if !ok {
		return StatusUnknown, body.StatusText, nil
	}
	return status, body.StatusText, nil
}

func authorize(req *http.Request, creds Credentials, userAgent string) {
	if creds.Username == AzureADUserName {
		req.Header.Set("Authorization", "Bearer "+creds.Password)
	} else {
		req.SetBasicAuth(creds.Username, creds.Password)
	}
	req.Header.Set("User-Agent", userAgent)
}

func (d *Deployer) info(msg string) {
	if d.Logger != nil {
		d.Logger.Info(msg)
	}
}

func (d *Deployer) client() *http.Client {
	if d.HTTP != nil {
		return d.HTTP
	}
	return http.DefaultClient
}

func (d *Deployer) pollInterval() time.Duration {
	if d.PollInterval > 0 {
		return d.PollInterval
	}
	return defaultPollInterval
}

func (d *Deployer) retryCount() int {
	if d.RetryCount > 0 {
		return d.RetryCount
	}
	return defaultRetryCount
}

func (d *Deployer) retryDelay() time.Duration {
	if d.RetryDelay > 0 {
		return d.RetryDelay
	}
	return defaultRetryDelay
}

func (d *Deployer) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return defaultTimeout
}
