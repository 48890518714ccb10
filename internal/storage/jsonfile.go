package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

const (
	DefaultDataFile = "calendar_tasks.json"
	FilePermissions = 0o644
	tmpSuffix       = ".tmp"
)

// JSONFile keeps the collection as an indented JSON array in a single file.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Read() ([]Task, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode %s: invalid UTF-8", f.path)
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return tasks, nil
}

// Write replaces the file through a temp file and rename so readers never
// see a partial array.
func (f *JSONFile) Write(tasks []Task) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+"*"+tmpSuffix)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, FilePermissions); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *JSONFile) Close() error {
	return nil
}
