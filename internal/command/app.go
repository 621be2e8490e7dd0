// Where: cli/internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/fnsdk/cli/internal/infra/artifactstore"
	"github.com/poruru/fnsdk/cli/internal/infra/ui"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
	"github.com/poruru/fnsdk/cli/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// This structure enables dependency injection for testing and allows swapping
// implementations of various subsystems.
type Dependencies struct {
	Out        io.Writer
	ErrOut     io.Writer
	Getwd      func() (string, error)
	NewLoader  func(ports.Logger) ports.AssemblyLoader
	NewTokens  func() (ports.TokenProvider, error)
	NewArchive func(context.Context, artifactstore.Options) (ports.ArtifactStore, error)
	HTTPClient *http.Client
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Config    string       `name:"config" help:"Path to ${config_file}"`
	EnvFile   string       `name:"env-file" help:"Path to .env file"`
	NoColor   bool         `name:"no-color" help:"Disable coloured output"`
	Generate  GenerateCmd  `cmd:"" default:"withargs" help:"Generate function.json files from an assembly (default command)"`
	Zip       ZipCmd       `cmd:"" help:"Package a folder into a zip archive"`
	ZipDeploy ZipDeployCmd `cmd:"" name:"zipdeploy" help:"Publish a zip archive to a function app"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)
	console := ui.NewWithOptions(deps.Out, ui.IsTerminal(deps.Out), false)

	// Load the env file before parsing so flag env bindings see its values.
	if path := envFileArg(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			console.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("failed to load .env: %v", err))
		}
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Generate and publish function metadata for compiled function apps."),
		kong.Writers(deps.Out, deps.ErrOut),
		kong.Exit(func(int) {}),
		kong.Vars{"config_file": meta.ConfigFile},
	)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	if helpRequested(args) {
		return 0
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps); handled {
		return exitCode
	}

	console.Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	prefixHandlers := map[string]commandHandler{
		"generate":  runGenerate,
		"zip":       runZip,
		"zipdeploy": runZipDeploy,
		"version":   runVersion,
	}
	name, _, _ := strings.Cut(command, " ")
	if handler, ok := prefixHandlers[name]; ok {
		return handler(cli, deps), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(_ CLI, deps Dependencies) int {
	fmt.Fprintln(deps.Out, version.GetVersion())
	return 0
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	return deps
}

// envFileArg extracts the --env-file value without a full parse.
func envFileArg(args []string) string {
	for i, arg := range args {
		if value, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return value
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func helpRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func newLogger(cli CLI, deps Dependencies, verbose bool) *ui.ConsoleLogger {
	return ui.NewConsoleLogger(deps.Out, deps.ErrOut, cli.NoColor, verbose)
}
