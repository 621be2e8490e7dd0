// Where: cli/internal/infra/fileops/zip.go
// What: Zip packaging of a publish folder.
// Why: Zip deploy uploads a single archive whose entries mirror the folder layout.
package fileops

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ZipDir writes every file under src into a new archive at dst.
// Entry names are relative to src with forward slashes; dst itself is never included.
func ZipDir(src, dst string) (int, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return 0, err
	}
	dst, err = filepath.Abs(dst)
	if err != nil {
		return 0, err
	}
	if !DirExists(src) {
		return 0, fmt.Errorf("zip source is not a directory: %s", src)
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return 0, err
	}

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	writer := zip.NewWriter(out)
	count := 0
	walkErr := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || path == dst || path == tmp {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := addZipEntry(writer, path, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("add %s: %w", rel, err)
		}
		count++
		return nil
	})
	closeErr := writer.Close()
	fileErr := out.Close()
	for _, err := range []error{walkErr, closeErr, fileErr} {
		if err != nil {
			_ = os.Remove(tmp)
			return 0, err
		}
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return count, nil
}

func addZipEntry(writer *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = strings.TrimPrefix(name, "/")
	header.Method = zip.Deflate
	w, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}
