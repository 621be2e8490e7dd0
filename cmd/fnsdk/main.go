// Where: cli/cmd/fnsdk/main.go
// What: CLI entrypoint.
// Why: Execute fnsdk commands with configured dependencies.
package main

import (
	"fmt"
	"os"

	"github.com/poruru/fnsdk/cli/internal/command"
)

func main() {
	deps, closer, err := buildDependencies()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	code := command.Run(os.Args[1:], deps)
	if closer != nil {
		_ = closer.Close()
	}
	os.Exit(code)
}
