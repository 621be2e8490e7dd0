// Where: cli/internal/command/generate.go
// What: Generate command: positional argument handling, config merge, and watch mode.
// Why: Keep the positional surface of the build task while adding project defaults.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poruru/fnsdk/cli/internal/infra/config"
	"github.com/poruru/fnsdk/cli/internal/infra/watch"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
	"github.com/poruru/fnsdk/cli/internal/usecase/generate"
	"github.com/poruru/fnsdk/cli/internal/version"
)

const (
	generateUsage       = "USAGE: <assemblyPath> <outputPath> [<functionsInDependencies>] [<excludedFunctionNames>]"
	generateFailMessage = "Error generating functions metadata"
)

var (
	errGenerateUsage       = errors.New(generateUsage)
	errLoaderNotConfigured = errors.New("assembly loader is not configured")
)

// GenerateCmd is the default command.
type GenerateCmd struct {
	AssemblyPath            string   `arg:"" optional:"" name:"assemblyPath" help:"Compiled assembly or descriptor to scan"`
	OutputPath              string   `arg:"" optional:"" name:"outputPath" help:"Directory receiving <name>/function.json"`
	FunctionsInDependencies string   `arg:"" optional:"" name:"functionsInDependencies" help:"true to scan sibling assemblies too"`
	ExcludedFunctionNames   string   `arg:"" optional:"" name:"excludedFunctionNames" help:"Semicolon separated names kept during cleanup"`
	Extra                   []string `arg:"" optional:"" name:"extra" help:"Unexpected trailing arguments"`

	SkipExisting     bool `name:"skip-existing" help:"Keep function.json files that already exist"`
	GenerateHostJSON bool `name:"generate-host-json" help:"Write an empty host.json when none is present"`
	NoValidate       bool `name:"no-validate" help:"Skip JSON schema validation of generated files"`
	Watch            bool `name:"watch" help:"Regenerate whenever the assembly changes"`
	Verbose          bool `short:"v" help:"Print each generated file"`
}

func runGenerate(cli CLI, deps Dependencies) int {
	req, err := buildGenerateRequest(cli, deps)
	if err != nil {
		if errors.Is(err, errGenerateUsage) {
			fmt.Fprintln(deps.ErrOut, generateUsage)
			return 1
		}
		return exitWithError(deps.ErrOut, err)
	}

	if deps.NewLoader == nil {
		return exitWithError(deps.ErrOut, errLoaderNotConfigured)
	}
	logger := newLogger(cli, deps, req.Verbose)
	workflow := generate.Workflow{
		Loader:      deps.NewLoader(logger),
		Logger:      logger,
		GeneratedBy: meta.GeneratedBy(version.GetVersion()),
	}
	exitCode := generateOnce(workflow, req, deps)
	if !cli.Generate.Watch {
		return exitCode
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndGenerate(ctx, workflow, req, deps, logger)
}

func generateOnce(workflow generate.Workflow, req generate.Request, deps Dependencies) int {
	result, err := workflow.Run(req)
	if err != nil {
		workflow.Logger.ErrorDetail(err)
		fmt.Fprintln(deps.ErrOut, generateFailMessage)
		return 1
	}
	if !result.Succeeded() {
		fmt.Fprintln(deps.ErrOut, generateFailMessage)
		return 1
	}
	return 0
}

func watchAndGenerate(
	ctx context.Context,
	workflow generate.Workflow,
	req generate.Request,
	deps Dependencies,
	logger ports.Logger,
) int {
	logger.Info(fmt.Sprintf("Watching %s for changes. Press Ctrl+C to stop.", req.AssemblyPath))
	watcher := &watch.FileWatcher{
		Files:  []string{req.AssemblyPath},
		Logger: logger,
		OnChange: func(changed []string) {
			logger.Info(fmt.Sprintf("Change detected in %s; regenerating.", strings.Join(changed, ", ")))
			generateOnce(workflow, req, deps)
		},
	}
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return exitWithError(deps.ErrOut, err)
	}
	return 0
}

// buildGenerateRequest merges positional arguments and flags over fnsdk.yaml defaults.
func buildGenerateRequest(cli CLI, deps Dependencies) (generate.Request, error) {
	cmd := cli.Generate
	assemblyPath := cleanArg(cmd.AssemblyPath)
	outputPath := cleanArg(cmd.OutputPath)
	if assemblyPath == "" || outputPath == "" || len(cmd.Extra) > 0 {
		return generate.Request{}, errGenerateUsage
	}

	cwd, err := deps.Getwd()
	if err != nil {
		return generate.Request{}, fmt.Errorf("get working directory: %w", err)
	}
	cfg, _, err := config.Resolve(cli.Config, cwd)
	if err != nil {
		return generate.Request{}, err
	}
	defaults := cfg.Generate

	req := generate.Request{
		AssemblyPath:            assemblyPath,
		OutputPath:              outputPath,
		FunctionsInDependencies: defaults.FunctionsInDependencies,
		ExcludedFunctions:       defaults.ExcludedFunctions,
		SkipExisting:            defaults.SkipExisting || cmd.SkipExisting,
		GenerateHostJSON:        defaults.GenerateHostJSON || cmd.GenerateHostJSON,
		Validate:                defaults.ShouldValidate() && !cmd.NoValidate,
		Verbose:                 cmd.Verbose,
	}
	if value := cleanArg(cmd.FunctionsInDependencies); value != "" {
		req.FunctionsInDependencies = parseBool(value)
	}
	if value := cleanArg(cmd.ExcludedFunctionNames); value != "" {
		req.ExcludedFunctions = splitNames(value)
	}
	return req, nil
}

// cleanArg strips surrounding spaces and quotes that build hosts leave on arguments.
func cleanArg(value string) string {
	return strings.Trim(value, " \"")
}

// parseBool accepts true/false in any case; anything else is false.
func parseBool(value string) bool {
	return strings.EqualFold(value, "true")
}

func splitNames(value string) []string {
	var names []string
	for _, name := range strings.Split(value, ";") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
