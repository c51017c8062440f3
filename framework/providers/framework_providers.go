package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/metadata"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads and validates the application configuration
// from .env on first use.
//
// Described types:
//   - *config.Config  (singleton)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	return metadata.For[*config.Config](app.Types()).
		Singleton().
		Constructor(func() (*config.Config, error) { return config.LoadValid(envFiles...) }).
		Err()
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger from *config.Config.
//
// Described types:
//   - *zap.Logger  (singleton, injected with *config.Config)
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return metadata.For[*zap.Logger](app.Types()).
		Singleton().
		Constructor(logging.FromConfig, metadata.Inject(), metadata.Arg(0, "cfg")).
		Err()
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Described types:
//   - *routing.Router  (singleton, injected with *zap.Logger)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return metadata.For[*routing.Router](app.Types()).
		Singleton().
		Constructor(routing.New, metadata.Inject(), metadata.Arg(0, "log")).
		Err()
}
