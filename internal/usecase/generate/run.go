// Where: cli/internal/usecase/generate/run.go
// What: Generation workflow: load, clean, stage auxiliary files, scan, check, and write.
// Why: Keep the phase order of one generation run in a single place.
package generate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/function"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
	"github.com/poruru/fnsdk/cli/internal/infra/fileops"
	"github.com/poruru/fnsdk/cli/internal/infra/output"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

var (
	errLoaderNotConfigured = errors.New("assembly loader is not configured")
	errLoggerNotConfigured = errors.New("logger is not configured")
	errOutputPathRequired  = errors.New("output path is required")
	errAssemblyRequired    = errors.New("assembly path is required")
)

// Request captures the inputs of one generation run.
type Request struct {
	AssemblyPath            string
	OutputPath              string
	FunctionsInDependencies bool
	ExcludedFunctions       []string
	SkipExisting            bool
	GenerateHostJSON        bool
	Validate                bool
	Verbose                 bool
}

// Result summarizes a run.
type Result struct {
	Generated []string
	Failed    int
}

// Succeeded reports whether every candidate function was written.
func (r Result) Succeeded() bool {
	return r.Failed == 0
}

// Workflow runs generation against its collaborators.
type Workflow struct {
	Loader      ports.AssemblyLoader
	Logger      ports.Logger
	GeneratedBy string
}

// Run executes one generation. The returned error is fatal; per-function failures are counted in Result.
func (w Workflow) Run(req Request) (Result, error) {
	if w.Loader == nil {
		return Result{}, errLoaderNotConfigured
	}
	if w.Logger == nil {
		return Result{}, errLoggerNotConfigured
	}
	root, err := resolveOutputRoot(req.OutputPath)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.AssemblyPath) == "" {
		return Result{}, errAssemblyRequired
	}

	loaded, err := w.Loader.Load(ports.LoadRequest{
		Path:                req.AssemblyPath,
		IncludeDependencies: req.FunctionsInDependencies,
	})
	if err != nil {
		return Result{}, fmt.Errorf("load assembly %s: %w", req.AssemblyPath, err)
	}
	if err := fileops.EnsureDir(root); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	manifest := output.OpenManifest(root)
	w.cleanPrevious(root, manifest, req.ExcludedFunctions)
	output.CopyAuxiliaryFiles(filepath.Dir(loaded.Target.Path), root, w.Logger)
	if req.GenerateHostJSON {
		if _, err := output.EnsureHostJSON(root); err != nil {
			w.Logger.Warn(err.Error())
		}
	}

	driver := Driver{
		Assembler: function.Assembler{Types: loaded, GeneratedBy: w.GeneratedBy},
		Logger:    w.Logger,
		ScriptFile: func(asm *metadata.Assembly) string {
			path := loaded.Target.Path
			if asm != nil && asm.Path != "" {
				path = asm.Path
			}
			return output.ScriptFile(root, path)
		},
	}
	settings, err := output.LoadLocalSettings(root)
	if err != nil {
		w.Logger.Warn(err.Error())
	} else if settings != nil {
		driver.Settings = settings
	}

	writer := &output.Writer{OutputRoot: root, SkipExisting: req.SkipExisting, Validate: req.Validate}
	var result Result
	for _, entry := range driver.Scan(loaded.Types) {
		if entry.Failed() {
			result.Failed++
			continue
		}
		written, err := writer.Write(entry.Name, entry.Schema)
		if err != nil {
			w.Logger.Error(fmt.Sprintf("Unable to write %s", output.FunctionPath(root, entry.Name)))
			w.Logger.ErrorDetail(err)
			result.Failed++
			continue
		}
		if err := manifest.Record(output.ManifestEntry(entry.Name)); err != nil {
			w.Logger.Warn(err.Error())
		}
		result.Generated = append(result.Generated, entry.Name)
		if req.Verbose {
			if written {
				w.Logger.Info(fmt.Sprintf("Generated %s", output.FunctionPath(root, entry.Name)))
			} else {
				w.Logger.Info(fmt.Sprintf("Kept existing %s", output.FunctionPath(root, entry.Name)))
			}
		}
	}
	return result, nil
}

// cleanPrevious removes directories generated by the previous run and starts a fresh manifest.
func (w Workflow) cleanPrevious(root string, manifest *output.Manifest, excluded []string) {
	previous, err := manifest.Entries()
	if err != nil {
		w.Logger.Warn(err.Error())
	}
	if err := manifest.Reset(); err != nil {
		w.Logger.Warn(err.Error())
	}
	output.CleanPrevious(root, previous, excluded, w.Logger)
}

func resolveOutputRoot(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errOutputPathRequired
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return root, nil
}
