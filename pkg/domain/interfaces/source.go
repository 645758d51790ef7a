package interfaces

import (
	"context"

	"github.com/civic-lab/partes/pkg/domain/model"
)

// Source is a durable backend for the request collection. The whole
// collection is stored as one ordered document; Save always replaces
// the previous snapshot.
type Source interface {
	Load(ctx context.Context) ([]*model.Request, error)
	Save(ctx context.Context, snapshot []*model.Request) error
	Close() error
}

// Prober is implemented by sources that can cheaply check their own
// reachability, e.g. a remote read-only document.
type Prober interface {
	Probe(ctx context.Context) bool
}
