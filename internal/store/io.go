package store

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// loadFile returns the contents of path. found is false when the file does
// not exist yet.
func loadFile(path string) (b []byte, found bool, err error) {
	b, err = os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// loadJSON decodes path into out, leaving out untouched if the file is absent.
func loadJSON(path string, out any) error {
	b, found, err := loadFile(path)
	if err != nil || !found {
		return err
	}
	return json.Unmarshal(b, out)
}

// saveJSON replaces path with the indented JSON form of v.
func saveJSON(path string, v any, mode os.FileMode) error {
	return replaceFile(path, mode, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// saveBytes replaces path with b.
func saveBytes(path string, b []byte, mode os.FileMode) error {
	return replaceFile(path, mode, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// replaceFile streams fill into a sibling temp file and renames it over
// path, so readers and the fsnotify watcher only ever see complete files.
func replaceFile(path string, mode os.FileMode, fill func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = fill(f); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
