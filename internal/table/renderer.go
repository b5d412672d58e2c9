package table

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/primal-host/zpanel/internal/request"
	"golang.org/x/sync/errgroup"
)

// Renderer fetches table data from the appliance and builds tables.
type Renderer struct {
	client *request.Client
}

// NewRenderer creates a Renderer issuing its requests through c.
func NewRenderer(c *request.Client) *Renderer {
	return &Renderer{client: c}
}

// Render issues a GET for spec.Endpoint and builds the table from whatever
// came back.
func (r *Renderer) Render(ctx context.Context, spec Spec) *Node {
	var t *Node
	r.client.Do(ctx, http.MethodGet, spec.Endpoint, nil,
		func(resp *request.Response) {
			if !resp.OK() {
				slog.Warn("table request failed", "endpoint", spec.Endpoint, "status", resp.Status)
			}
			t = Build(spec.Title, resp, nil)
		},
		func(err error) {
			slog.Warn("table request error", "endpoint", spec.Endpoint, "error", err)
			t = Build(spec.Title, nil, err)
		},
	)
	return t
}

// RenderAll renders every spec concurrently and appends each table to its
// target container as soon as its response is in, so tables sharing a
// container appear in completion order. The error reports specs whose
// target is not in doc.
func (r *Renderer) RenderAll(ctx context.Context, doc *Document, specs []Spec) error {
	var g errgroup.Group
	for _, spec := range specs {
		spec := spec
		g.Go(func() error {
			return doc.Append(spec.Target, r.Render(ctx, spec))
		})
	}
	return g.Wait()
}
