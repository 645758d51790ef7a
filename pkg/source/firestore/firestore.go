// Package firestore stores the request collection in a Firestore
// collection, one document per request plus a position field so the
// insertion order of the snapshot survives a round trip. Each request
// body is kept as serialized JSON, which preserves fields written by
// other versions.
package firestore

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.Source = &Firestore{}

type requestDoc struct {
	ID        string    `firestore:"id"`
	Position  int       `firestore:"position"`
	CreatedAt time.Time `firestore:"createdAt"`
	Data      []byte    `firestore:"data"`
}

// Option configures a Firestore source
type Option func(*Firestore)

// WithCollectionPrefix namespaces the collection, e.g. for tests
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

// New creates a Firestore-backed source for the given project
func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) collection() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_requests"
	}
	return "requests"
}

func (f *Firestore) Load(ctx context.Context) ([]*model.Request, error) {
	iter := f.client.Collection(f.collection()).
		OrderBy("position", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var reqs []*model.Request
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate requests")
		}

		var doc requestDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode request document", goerr.V("doc", snap.Ref.ID))
		}

		var r model.Request
		if err := json.Unmarshal(doc.Data, &r); err != nil {
			return nil, goerr.Wrap(err, "failed to parse request body", goerr.V("doc", snap.Ref.ID))
		}
		reqs = append(reqs, &r)
	}

	if reqs == nil {
		reqs = []*model.Request{}
	}
	return reqs, nil
}

func (f *Firestore) Save(ctx context.Context, snapshot []*model.Request) error {
	col := f.client.Collection(f.collection())

	// Collect the IDs already stored so removed requests are deleted.
	// The current lifecycle has no deletion path, but the snapshot is
	// authoritative either way.
	existing := make(map[string]*firestore.DocumentRef)
	iter := col.Select().Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to list stored requests")
		}
		existing[snap.Ref.ID] = snap.Ref
	}

	bw := f.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob

	keep := make(map[string]bool, len(snapshot))
	for i, r := range snapshot {
		data, err := json.Marshal(r)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request", goerr.V("id", r.ID))
		}

		docID := r.ID.String()
		keep[docID] = true

		job, err := bw.Set(col.Doc(docID), requestDoc{
			ID:        docID,
			Position:  i,
			CreatedAt: r.CreatedAt,
			Data:      data,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to queue request write", goerr.V("id", r.ID))
		}
		jobs = append(jobs, job)
	}

	for docID, ref := range existing {
		if keep[docID] {
			continue
		}
		job, err := bw.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to queue request delete", goerr.V("id", docID))
		}
		jobs = append(jobs, job)
	}

	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write snapshot")
		}
	}
	return nil
}

// Probe reports whether the backend answers at all. A missing marker
// document still counts as reachable; only transport-level errors do
// not.
func (f *Firestore) Probe(ctx context.Context) bool {
	_, err := f.client.Collection(f.collection()).Doc("_probe").Get(ctx)
	return err == nil || status.Code(err) == codes.NotFound
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
