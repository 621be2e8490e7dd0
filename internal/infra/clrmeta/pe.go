// Where: cli/internal/infra/clrmeta/pe.go
// What: Open a PE image with saferwall/pe and load its CLI metadata into the reflection model.
// Why: Assemblies are inspected as data; nothing is loaded or executed.
package clrmeta

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/saferwall/pe"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// ErrNotManaged is returned for PE files without a CLI header.
var ErrNotManaged = errors.New("not a managed assembly")

// Open reads the assembly at path. The name falls back to the file name
// when the image has no Assembly row.
func Open(path string) (*metadata.Assembly, error) {
	f, err := pe.New(path, &pe.Options{})
	if err != nil {
		return nil, fmt.Errorf("open assembly: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	asm, err := read(f, name)
	if err != nil {
		return nil, fmt.Errorf("read assembly %s: %w", path, err)
	}
	asm.Path = path
	return asm, nil
}

func read(f *pe.File, name string) (*metadata.Assembly, error) {
	if err := f.Parse(); err != nil {
		return nil, &FormatError{Where: "PE image", Err: err}
	}
	if !f.FileInfo.HasCLR {
		return nil, ErrNotManaged
	}
	img, err := newImage(f.CLR)
	if err != nil {
		return nil, err
	}
	return buildAssembly(img, name)
}
