// Where: cli/cmd/fnsdk/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/poruru/fnsdk/cli/internal/command"
	"github.com/poruru/fnsdk/cli/internal/infra/artifactstore"
	"github.com/poruru/fnsdk/cli/internal/infra/assembly"
	"github.com/poruru/fnsdk/cli/internal/infra/azauth"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const uploadTimeout = 10 * time.Minute

var (
	getwd         = os.Getwd
	newHTTPClient = func() *http.Client {
		return &http.Client{Timeout: uploadTimeout}
	}
)

// buildDependencies constructs the runtime dependencies of the CLI.
// Returns the dependencies and a closer that releases idle HTTP connections.
func buildDependencies() (command.Dependencies, io.Closer, error) {
	if _, err := getwd(); err != nil {
		return command.Dependencies{}, nil, err
	}
	client := newHTTPClient()

	deps := command.Dependencies{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Getwd:  getwd,
		NewLoader: func(logger ports.Logger) ports.AssemblyLoader {
			return assembly.NewLoader(logger)
		},
		NewTokens: func() (ports.TokenProvider, error) {
			return azauth.NewDefaultProvider()
		},
		NewArchive: func(ctx context.Context, opts artifactstore.Options) (ports.ArtifactStore, error) {
			return artifactstore.New(ctx, opts)
		},
		HTTPClient: client,
	}
	return deps, idleCloser{client: client}, nil
}

type idleCloser struct {
	client *http.Client
}

func (c idleCloser) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
