// Package gcsdoc reads the request collection from a JSON document
// object in Google Cloud Storage. Like remotedoc, the object is
// treated as read-only and writes go to a local fallback source.
package gcsdoc

import (
	"context"
	"encoding/json"
	"errors"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/utils/logging"
	"github.com/civic-lab/partes/pkg/utils/safe"
)

type GCSDoc struct {
	client   *storage.Client
	bucket   string
	object   string
	fallback interfaces.Source
}

var (
	_ interfaces.Source = &GCSDoc{}
	_ interfaces.Prober = &GCSDoc{}
)

// New creates a source reading gs://bucket/object. fallback receives
// all writes and must not be nil.
func New(ctx context.Context, bucket, object string, fallback interfaces.Source) (*GCSDoc, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCSDoc{
		client:   client,
		bucket:   bucket,
		object:   object,
		fallback: fallback,
	}, nil
}

// Probe reports whether the document object exists and is readable
func (g *GCSDoc) Probe(ctx context.Context) bool {
	_, err := g.client.Bucket(g.bucket).Object(g.object).Attrs(ctx)
	return err == nil
}

func (g *GCSDoc) Load(ctx context.Context) ([]*model.Request, error) {
	reader, err := g.client.Bucket(g.bucket).Object(g.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return []*model.Request{}, nil
		}
		return nil, goerr.Wrap(err, "failed to open document object",
			goerr.V("bucket", g.bucket), goerr.V("object", g.object))
	}
	defer safe.Close(ctx, reader)

	var reqs []*model.Request
	if err := json.NewDecoder(reader).Decode(&reqs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse document object",
			goerr.V("bucket", g.bucket), goerr.V("object", g.object))
	}
	return reqs, nil
}

// Save writes to the local fallback and warns that the remote object
// is left untouched
func (g *GCSDoc) Save(ctx context.Context, snapshot []*model.Request) error {
	logging.From(ctx).Warn("document object is read-only; saving to local fallback",
		"bucket", g.bucket, "object", g.object)
	return g.fallback.Save(ctx, snapshot)
}

func (g *GCSDoc) Close() error {
	if err := g.fallback.Close(); err != nil {
		return err
	}
	return g.client.Close()
}
