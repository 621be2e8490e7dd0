// Where: cli/internal/ports/deploy.go
// What: Deploy collaborator ports.
// Why: Zip deploy works with any token source or archive store, including test fakes.
package ports

import "context"

// TokenProvider returns a bearer token for the deployment endpoint.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ArtifactStore keeps a copy of a deployed archive and returns its location.
type ArtifactStore interface {
	Put(ctx context.Context, key, path string) (string, error)
}
