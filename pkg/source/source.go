// Package source builds persistence backends from the storage
// configuration. Each backend lives in its own subpackage; this
// package only maps the configured mode onto a constructor.
package source

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/config"
	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/source/firestore"
	"github.com/civic-lab/partes/pkg/source/gcsdoc"
	"github.com/civic-lab/partes/pkg/source/localfile"
	"github.com/civic-lab/partes/pkg/source/memory"
	"github.com/civic-lab/partes/pkg/source/remotedoc"
	"github.com/civic-lab/partes/pkg/source/sqlitedoc"
)

// New builds the Source selected by cfg.Mode. The read-only modes
// (remote, gcs) get a local write fallback: the configured path when
// set, an in-memory store otherwise.
func New(ctx context.Context, cfg config.Storage) (interfaces.Source, error) {
	switch cfg.Mode {
	case "", "memory":
		return memory.New(), nil

	case "file":
		return localfile.New(cfg.Path), nil

	case "sqlite":
		return sqlitedoc.New(ctx, cfg.Path)

	case "remote":
		return remotedoc.New(cfg.URL, writeFallback(cfg)), nil

	case "gcs":
		return gcsdoc.New(ctx, cfg.Bucket, cfg.Object, writeFallback(cfg))

	case "firestore":
		var opts []firestore.Option
		if cfg.CollectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(cfg.CollectionPrefix))
		}
		return firestore.New(ctx, cfg.ProjectID, opts...)

	default:
		return nil, goerr.New("unknown storage mode", goerr.V("mode", cfg.Mode))
	}
}

func writeFallback(cfg config.Storage) interfaces.Source {
	if cfg.Path != "" {
		return localfile.New(cfg.Path)
	}
	return memory.New()
}
