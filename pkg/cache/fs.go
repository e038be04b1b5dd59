package cache

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Qwinci/hzlauncher/pkg/errors"
)

// Exists reports whether path exists. Errors other than not-exist are
// returned as filesystem errors.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFilesystem, "failed to stat %s", path)
}

// WriteFile writes data to a temporary file next to path and renames it into
// place, creating parent directories as needed. path never holds a partial
// write.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to create temp file for %s", path)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to write %s", path)
	}

	return nil
}

// CopyFile copies src to dst with the same guarantees as WriteFile.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to open %s", src)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to read %s", src)
	}

	return WriteFile(dst, data)
}

// EnsureDirs creates every directory in dirs.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrFilesystem, "failed to create %s", dir)
		}
	}
	return nil
}
