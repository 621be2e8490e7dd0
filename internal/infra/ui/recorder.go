// Where: cli/internal/infra/ui/recorder.go
// What: In-memory logger capturing diagnostics by severity.
// Why: Tests and embedding hosts assert on exact messages without parsing console output.
package ui

import (
	"sync"

	"github.com/poruru/fnsdk/cli/internal/ports"
)

// RecorderLogger records every diagnostic it receives.
type RecorderLogger struct {
	mu           sync.Mutex
	Infos        []string
	Warnings     []string
	Errors       []string
	WarnDetails  []error
	ErrorDetails []error
}

var _ ports.Logger = (*RecorderLogger)(nil)

func (r *RecorderLogger) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Infos = append(r.Infos, msg)
}

func (r *RecorderLogger) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, msg)
}

func (r *RecorderLogger) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

func (r *RecorderLogger) WarnDetail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WarnDetails = append(r.WarnDetails, err)
}

func (r *RecorderLogger) ErrorDetail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ErrorDetails = append(r.ErrorDetails, err)
}
