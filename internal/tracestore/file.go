package tracestore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/vango-react/internal/errors"
)

// FileStore stores traces in a local directory, one file per trace.
type FileStore struct {
	dir    string
	format Format
}

// NewFileStore creates dir if needed and returns a FileStore writing
// traces in format f.
func NewFileStore(dir string, f Format) (*FileStore, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("R051").Wrap(err)
	}
	return &FileStore{dir: dir, format: f}, nil
}

// Dir returns the directory traces are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes t to <dir>/<id>.<ext>.
func (s *FileStore) Put(ctx context.Context, t *Trace) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := t.Bytes(s.format)
	if err != nil {
		return "", err
	}

	key := keyFor(t, s.format)
	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.New("R051").Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.New("R051").Wrap(err)
	}
	return key, nil
}

// Get reads the trace stored under key. The format follows the key's
// extension.
func (s *FileStore) Get(ctx context.Context, key string) (*Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(key), "."))
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.New("R051").Wrap(err)
	}
	defer file.Close()
	return Decode(file, f)
}

// List returns the keys of the stored traces, oldest first.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("R051").Wrap(err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(e.Name()), ".")
		if _, err := ParseFormat(ext); err == nil {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}
