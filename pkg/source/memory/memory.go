// Package memory provides an in-memory Source, used in tests and as
// the no-persistence mode.
package memory

import (
	"context"
	"sync"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
)

type Memory struct {
	mu       sync.RWMutex
	snapshot []*model.Request
}

var _ interfaces.Source = &Memory{}

// New creates an empty in-memory source
func New() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]*model.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Request, len(m.snapshot))
	for i, r := range m.snapshot {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *Memory) Save(ctx context.Context, snapshot []*model.Request) error {
	stored := make([]*model.Request, len(snapshot))
	for i, r := range snapshot {
		stored[i] = r.Clone()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = stored
	return nil
}

func (m *Memory) Close() error {
	return nil
}
