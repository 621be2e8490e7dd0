// Where: cli/internal/ports/logger.go
// What: Diagnostic logger port.
// Why: Generation reports errors and warnings without knowing whether a console, build log, or test reads them.
package ports

// Logger receives generation diagnostics.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	WarnDetail(err error)
	ErrorDetail(err error)
}
