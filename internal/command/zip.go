// Where: cli/internal/command/zip.go
// What: Zip command.
// Why: Package a publish folder before zip deploy.
package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/poruru/fnsdk/cli/internal/infra/fileops"
	"github.com/poruru/fnsdk/cli/internal/infra/ui"
)

// ZipCmd packages a folder.
type ZipCmd struct {
	Folder string `arg:"" name:"folder" help:"Folder to package"`
	Out    string `name:"out" short:"o" help:"Destination zip file (default: a new file in the temp directory)"`
}

func runZip(cli CLI, deps Dependencies) int {
	cmd := cli.Zip
	folder := cleanArg(cmd.Folder)
	dst := cleanArg(cmd.Out)
	temporary := dst == ""
	if temporary {
		temp, err := tempZipPath()
		if err != nil {
			return exitWithError(deps.ErrOut, err)
		}
		dst = temp
	} else if abs, err := filepath.Abs(dst); err == nil {
		dst = abs
	}

	count, err := fileops.ZipDir(folder, dst)
	if err != nil {
		if temporary {
			_ = os.Remove(dst)
		}
		return exitWithError(deps.ErrOut, err)
	}

	console := ui.NewWithOptions(deps.Out, false, !cli.NoColor && ui.ColorAllowed(deps.Out))
	console.Success(fmt.Sprintf("Packaged %d files", count))
	console.Item("Source", folder)
	console.Item("Zip", dst)
	return 0
}

func tempZipPath() (string, error) {
	file, err := os.CreateTemp("", "fnsdk-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp zip: %w", err)
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp zip: %w", err)
	}
	return name, nil
}
