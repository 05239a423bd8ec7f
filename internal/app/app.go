package app

import (
	"context"
	"database/sql"
	"sync"

	"github.com/opencode-ai/agentchat/internal/chat"
	"github.com/opencode-ai/agentchat/internal/config"
	"github.com/opencode-ai/agentchat/internal/conversation"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/llm/provider"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"golang.org/x/time/rate"
)

type App struct {
	Conversations conversation.Service
	Messages      message.Service

	ctx     context.Context
	cfg     *config.Config
	limiter *rate.Limiter

	registryMu sync.RWMutex
	registry   models.Registry
	registryCh *pubsub.Broker[models.Registry]

	providersMu sync.Mutex
	providers   map[models.ModelProvider]provider.Provider
	// extra options per provider, used by tests
	providerOptions map[models.ModelProvider][]provider.ProviderClientOption

	sessionsMu sync.Mutex
	sessions   map[*chat.Session]struct{}
}

func New(ctx context.Context, conn *sql.DB, cfg *config.Config) *App {
	q := db.New(conn)
	app := &App{
		Conversations:   conversation.NewService(ctx, q),
		Messages:        message.NewService(q),
		ctx:             ctx,
		cfg:             cfg,
		limiter:         newLimiter(cfg.RateLimit),
		registry:        models.NewRegistry(cfg.Agents...),
		registryCh:      pubsub.NewBroker[models.Registry](),
		providers:       make(map[models.ModelProvider]provider.Provider),
		providerOptions: make(map[models.ModelProvider][]provider.ProviderClientOption),
		sessions:        make(map[*chat.Session]struct{}),
	}
	config.Watch(app.SetRegistry)
	return app
}

func newLimiter(rl config.RateLimit) *rate.Limiter {
	if rl.PerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rl.PerSecond), max(rl.Burst, 1))
}

func (app *App) Config() *config.Config {
	return app.cfg
}

// Registry returns the models currently offered in the selector.
func (app *App) Registry() models.Registry {
	app.registryMu.RLock()
	defer app.registryMu.RUnlock()
	return app.registry
}

// SetRegistry replaces the model list and notifies subscribers.
func (app *App) SetRegistry(r models.Registry) {
	app.registryMu.Lock()
	app.registry = r
	app.registryMu.Unlock()
	app.registryCh.Publish(pubsub.UpdatedEvent, r)
}

// SubscribeRegistry reports model list reloads.
func (app *App) SubscribeRegistry(ctx context.Context) <-chan pubsub.Event[models.Registry] {
	return app.registryCh.Subscribe(ctx)
}

// Provider returns the provider for a backend, creating it on first use.
func (app *App) Provider(name models.ModelProvider) (provider.Provider, error) {
	app.providersMu.Lock()
	defer app.providersMu.Unlock()
	if p, ok := app.providers[name]; ok {
		return p, nil
	}

	pc := app.cfg.Providers[name]
	opts := []provider.ProviderClientOption{
		provider.WithAPIKey(pc.APIKey),
		provider.WithBaseURL(pc.BaseURL),
		provider.WithMaxTokens(app.cfg.MaxTokens),
		provider.WithSystemMessage(app.cfg.SystemPrompt),
	}
	opts = append(opts, app.providerOptions[name]...)
	p, err := provider.NewProvider(name, opts...)
	if err != nil {
		return nil, err
	}
	logging.Debug("Provider created", "provider", name)
	app.providers[name] = p
	return p, nil
}

// NewChatSession opens the chat session for a route.
func (app *App) NewChatSession(path, conversationID string) *chat.Session {
	s := chat.New(app.ctx, chat.Deps{
		Conversations: app.Conversations,
		Messages:      app.Messages,
		Registry:      app.Registry,
		Providers:     app.Provider,
		Limiter:       app.limiter,
		OnClose:       app.forgetSession,
	}, path, conversationID)

	app.sessionsMu.Lock()
	app.sessions[s] = struct{}{}
	app.sessionsMu.Unlock()
	return s
}

func (app *App) forgetSession(s *chat.Session) {
	app.sessionsMu.Lock()
	delete(app.sessions, s)
	app.sessionsMu.Unlock()
}

func (app *App) openSessions() int {
	app.sessionsMu.Lock()
	defer app.sessionsMu.Unlock()
	return len(app.sessions)
}

// Shutdown stops running chat turns and waits for them.
func (app *App) Shutdown() {
	app.sessionsMu.Lock()
	sessions := make([]*chat.Session, 0, len(app.sessions))
	for s := range app.sessions {
		sessions = append(sessions, s)
	}
	app.sessionsMu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	app.registryCh.Shutdown()
}
