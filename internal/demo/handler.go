package demo

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/metadata"
)

// Handler serves the demo graph. It is resolved once at boot; its fields are
// injected by the container.
type Handler struct {
	Root      *Root                `inject:""`
	Log       *zap.Logger          `inject:""`
	Container *container.Container `inject:""`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{"status": "ok"})
}

// Show describes the singleton root and its two nodes.
func (h *Handler) Show(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{
		"root": h.Root.String(),
		"a":    h.Root.A.Name(),
		"b":    h.Root.B.Name(),
	})
}

// Leaf resolves ?count= fresh transient leaves (1 to 16).
func (h *Handler) Leaf(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	count := gohttp.NewRequest(r).QueryInt("count", 1, 1, 16)

	leaves := make([]map[string]any, 0, count)
	for range count {
		leaf, err := container.Resolve[*Leaf](h.Container)
		if err != nil {
			h.Log.Error("resolving leaf", zap.Error(err))
			res.ServerError()
			return
		}
		leaves = append(leaves, map[string]any{
			"id":       leaf.ID.String(),
			"leaf":     leaf.String(),
			"sameRoot": leaf.Root == h.Root,
		})
	}
	res.Success(leaves)
}

// Node resolves the Node bound under the qualifier named in the path.
func (h *Handler) Node(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name := gohttp.NewRequest(r).RouteParam("name")

	node, err := container.ResolveQualified[Node](h.Container, metadata.Named(name))
	var noCtor container.NoAccessibleConstructorError
	switch {
	case errors.As(err, &noCtor):
		res.NotFound(fmt.Sprintf("no node qualified %q", name))
		return
	case err != nil:
		h.Log.Error("resolving node", zap.String("name", name), zap.Error(err))
		res.ServerError()
		return
	}
	res.Success(map[string]any{
		"name":   name,
		"node":   node.Name(),
		"shared": node == h.Root.A || node == h.Root.B,
	})
}

// Cycle attempts to resolve the constructor cycle Ia -> Ib -> Ia and reports
// the error.
func (h *Handler) Cycle(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	_, err := container.Resolve[*Ia](h.Container)
	if err == nil {
		res.ServerError("constructor cycle resolved unexpectedly")
		return
	}
	h.Log.Debug("constructor cycle rejected", zap.Error(err))
	res.Error(http.StatusConflict, err.Error())
}
