// Package localfile stores the request collection as a single JSON
// document on disk, the durable local store for a single-user setup.
package localfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
)

type LocalFile struct {
	path string
}

var _ interfaces.Source = &LocalFile{}

// New creates a source backed by the JSON document at path. The file
// does not need to exist yet.
func New(path string) *LocalFile {
	return &LocalFile{path: path}
}

// Load reads the document. A missing file is an empty collection, not
// an error; malformed content is reported to the caller, who decides
// whether to degrade.
func (f *LocalFile) Load(ctx context.Context) ([]*model.Request, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Request{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read document", goerr.V("path", f.path))
	}

	var reqs []*model.Request
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse document", goerr.V("path", f.path))
	}
	return reqs, nil
}

// Save writes the snapshot atomically via a temp file and rename, so a
// crash mid-write cannot corrupt the previous document.
func (f *LocalFile) Save(ctx context.Context, snapshot []*model.Request) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal snapshot")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create document directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write snapshot", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace document", goerr.V("path", f.path))
	}
	return nil
}

func (f *LocalFile) Close() error {
	return nil
}
