package tokit

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tokit-dev/tokit/kv"
	"github.com/tokit-dev/tokit/permission"
	"github.com/tokit-dev/tokit/session"
)

// Builder assembles an [Engine]. Chain the With methods and finish with
// [Builder.Build]; the zero configuration produces a working engine backed
// by an in-process timed cache.
type Builder struct {
	cfg            Config
	cfgErr         error
	loginType      string
	store          kv.Store
	provider       permission.DataProvider
	listeners      []Listener
	logger         *zerolog.Logger
	metricsEnabled bool
}

// New starts a builder from the default configuration.
func New() *Builder {
	return &Builder{
		cfg:       defaultConfig(),
		loginType: DefaultLoginType,
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithConfigFile loads the configuration from a YAML file with TOKIT_*
// environment overrides. A load failure surfaces from [Builder.Build].
func (b *Builder) WithConfigFile(path string) *Builder {
	cfg, err := LoadConfig(path)
	if err != nil {
		b.cfgErr = err
		return b
	}
	b.cfg = cfg
	return b
}

// WithLoginType sets the login namespace; distinct login types never see
// each other's tokens or sessions.
func (b *Builder) WithLoginType(loginType string) *Builder {
	b.loginType = loginType
	return b
}

// WithStore backs the engine with a caller-supplied store. The caller owns
// the store's lifetime.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithRedis backs the engine with Redis, sharing state across processes.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.store = kv.NewRedis(client)
	return b
}

// WithPermissionProvider wires the application's permission and role data
// source. Without one, permission and role checks fail with
// [ErrNoPermissionProvider].
func (b *Builder) WithPermissionProvider(p permission.DataProvider) *Builder {
	b.provider = p
	return b
}

// WithListener registers a lifecycle listener at build time.
func (b *Builder) WithListener(l Listener) *Builder {
	b.listeners = append(b.listeners, l)
	return b
}

// WithLogger sets the engine's logger. Without one the engine is silent.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithMetricsEnabled toggles the atomic activity counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metricsEnabled = enabled
	return b
}

// Build validates the configuration and assembles the engine. The returned
// engine is ready for concurrent use; call [Engine.Close] when done if no
// store was supplied.
func (b *Builder) Build() (*Engine, error) {
	if b.cfgErr != nil {
		return nil, b.cfgErr
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, &Error{Code: ErrConfigLoad.Code, Message: err.Error()}
	}

	loginType := b.loginType
	if loginType == "" {
		loginType = DefaultLoginType
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	cfg := b.cfg
	store := b.store
	var ownedMemory *kv.Memory
	if store == nil {
		ownedMemory = kv.NewMemory(kv.MemoryOptions{
			SweepInterval:    func() int64 { return cfg.DataRefreshPeriod },
			MinSweepInterval: time.Duration(cfg.MinSweepInterval) * time.Second,
			Logger:           &logger,
		})
		store = ownedMemory
	}

	factory, err := newTokenFactory(cfg)
	if err != nil {
		return nil, &Error{Code: ErrConfigLoad.Code, Message: err.Error()}
	}

	sessions := session.NewStore(store, cfg.TokenName, func() int64 { return cfg.Timeout })
	log := logger.With().Str("component", "tokit").Logger()

	e := &Engine{
		cfg:         cfg,
		loginType:   loginType,
		store:       store,
		sessions:    sessions,
		listeners:   newListenerRegistry(log),
		metrics:     newMetrics(b.metricsEnabled),
		newToken:    factory,
		log:         log,
		ownedMemory: ownedMemory,
	}
	if b.provider != nil {
		e.evaluator = permission.NewEvaluator(b.provider, loginType)
	}
	for _, l := range b.listeners {
		if _, err := e.listeners.Register(l); err != nil {
			return nil, err
		}
	}
	sessions.SetCreateHook(func(sessionID string) {
		e.metrics.recordSessionCreated()
		e.listeners.fire(func(l Listener) {
			l.OnSessionCreate(sessionID)
		})
	})

	return e, nil
}
