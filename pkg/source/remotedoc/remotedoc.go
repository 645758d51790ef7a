// Package remotedoc reads the request collection from a remote
// read-only JSON document, e.g. a statically hosted export. Writes go
// to a local fallback source, since the remote document cannot be
// updated from here.
package remotedoc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/utils/logging"
)

const defaultTimeout = 10 * time.Second

type RemoteDoc struct {
	url      string
	client   *http.Client
	fallback interfaces.Source
}

var (
	_ interfaces.Source = &RemoteDoc{}
	_ interfaces.Prober = &RemoteDoc{}
)

// Option configures a RemoteDoc
type Option func(*RemoteDoc)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(client *http.Client) Option {
	return func(r *RemoteDoc) {
		r.client = client
	}
}

// New creates a source reading from url. fallback receives all writes
// and must not be nil.
func New(url string, fallback interfaces.Source, opts ...Option) *RemoteDoc {
	r := &RemoteDoc{
		url:      url,
		client:   &http.Client{Timeout: defaultTimeout},
		fallback: fallback,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Probe reports whether the remote document is reachable
func (r *RemoteDoc) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.url, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (r *RemoteDoc) Load(ctx context.Context) ([]*model.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", r.url))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch document", goerr.V("url", r.url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status fetching document",
			goerr.V("url", r.url), goerr.V("status", resp.StatusCode))
	}

	var reqs []*model.Request
	if err := json.NewDecoder(resp.Body).Decode(&reqs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse document", goerr.V("url", r.url))
	}
	return reqs, nil
}

// Save writes to the local fallback. The remote document stays as it
// was; the caller is warned so stale remote data is not a surprise.
func (r *RemoteDoc) Save(ctx context.Context, snapshot []*model.Request) error {
	logging.From(ctx).Warn("remote document is read-only; saving to local fallback",
		"url", r.url)
	return r.fallback.Save(ctx, snapshot)
}

func (r *RemoteDoc) Close() error {
	return r.fallback.Close()
}
