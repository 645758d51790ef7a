package remotedoc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
	"github.com/civic-lab/partes/pkg/source/memory"
	"github.com/civic-lab/partes/pkg/source/remotedoc"
)

func serveDocument(t *testing.T, reqs []*model.Request) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(reqs)
	gt.NoError(t, err).Required()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteDocLoad(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	srv := serveDocument(t, []*model.Request{
		{ID: "26-0001", Subject: model.Subject{Title: "Luminaria"}, CreatedAt: created},
	})

	src := remotedoc.New(srv.URL, memory.New())
	ctx := context.Background()

	gt.B(t, src.Probe(ctx)).True()

	reqs, err := src.Load(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, reqs).Length(1)
	gt.Value(t, reqs[0].ID).Equal(types.RequestID("26-0001"))
}

func TestRemoteDocSaveGoesToFallback(t *testing.T) {
	srv := serveDocument(t, nil)
	fallback := memory.New()
	src := remotedoc.New(srv.URL, fallback)
	ctx := context.Background()

	snapshot := []*model.Request{{ID: "26-0002", CreatedAt: time.Now().UTC()}}
	gt.NoError(t, src.Save(ctx, snapshot)).Required()

	// The write landed in the fallback, not the remote document
	stored, err := fallback.Load(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, stored).Length(1)

	remote, err := src.Load(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, remote).Length(0)
}

func TestRemoteDocUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	src := remotedoc.New(srv.URL, memory.New())
	ctx := context.Background()

	gt.B(t, src.Probe(ctx)).False()

	_, err := src.Load(ctx)
	gt.Error(t, err)
}
