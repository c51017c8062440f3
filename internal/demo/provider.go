package demo

import (
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/metadata"
	"github.com/km-arc/go-inject/framework/routing"
)

// Provider describes the demo graph, binds both Node implementations under
// their own qualifiers and mounts the HTTP routes.
type Provider struct{}

func (p *Provider) Register(app *container.Container) error {
	if err := Describe(app.Types()); err != nil {
		return err
	}
	node := metadata.Type[Node]()
	if err := app.Bind(node).ToQualifiedType(metadata.Type[*NodeA]()); err != nil {
		return err
	}
	return app.Bind(node).ToQualifiedType(metadata.Type[*NodeB]())
}

func (p *Provider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	h, err := container.Resolve[*Handler](app)
	if err != nil {
		return err
	}

	router.Get("/healthz", h.Health)
	router.Prefix("/graph", func(r *routing.Router) {
		r.Get("/", h.Show)
		r.Get("/leaf", h.Leaf)
		r.Get("/nodes/{name}", h.Node)
		r.Get("/cycle", h.Cycle)
	})
	return nil
}
