package app

import (
	"context"
	"testing"
	"time"

	"github.com/opencode-ai/agentchat/internal/config"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/llm/provider"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	conn, err := db.Connect(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	app := New(context.Background(), conn, cfg)
	app.providerOptions[models.ProviderEcho] = []provider.ProviderClientOption{
		provider.WithEchoOptions(provider.WithEchoDelay(0)),
	}
	t.Cleanup(app.Shutdown)
	return app
}

func testConfig() *config.Config {
	return &config.Config{
		Agents:       []models.ModelID{models.LocalEcho},
		MaxTokens:    256,
		SystemPrompt: "be brief",
	}
}

func TestEchoRoundTrip(t *testing.T) {
	app := newTestApp(t, testConfig())
	s := app.NewChatSession("/agent", "")

	model := app.Registry().AgentModels[0].ForSession("sid")
	s.PostChat("ping", false, &model)
	require.Eventually(t, func() bool { return !s.Loading() }, 2*time.Second, 5*time.Millisecond)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "You said:\n\n> ping", msgs[1].Content)
	assert.Equal(t, message.FinishReasonEndTurn, msgs[1].FinishReason)

	list, err := app.Conversations.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ping", app.Conversations.ConversationTitle(list[0].ID))
}

func TestClosedSessionsAreForgotten(t *testing.T) {
	app := newTestApp(t, testConfig())
	routed := app.NewChatSession("/agent", "")
	app.NewChatSession("/agent/abc", "")
	require.Equal(t, 2, app.openSessions())

	done := make(chan struct{})
	go func() {
		defer close(done)
		routed.Close()
	}()
	app.Shutdown()
	<-done

	assert.Zero(t, app.openSessions())
}

func TestProviderIsCached(t *testing.T) {
	app := newTestApp(t, testConfig())
	first, err := app.Provider(models.ProviderEcho)
	require.NoError(t, err)
	second, err := app.Provider(models.ProviderEcho)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = app.Provider("nope")
	assert.Error(t, err)
}

func TestSetRegistryPublishes(t *testing.T) {
	app := newTestApp(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := app.SubscribeRegistry(ctx)

	next := models.NewRegistry(models.GPT41, models.LocalEcho)
	app.SetRegistry(next)

	select {
	case ev := <-events:
		assert.Equal(t, pubsub.UpdatedEvent, ev.Type)
		assert.Equal(t, next.AgentNames, ev.Payload.AgentNames)
	case <-time.After(time.Second):
		t.Fatal("no registry event")
	}
	assert.Equal(t, next.AgentNames, app.Registry().AgentNames)
}

func TestNewLimiter(t *testing.T) {
	unlimited := newLimiter(config.RateLimit{})
	assert.Equal(t, rate.Inf, unlimited.Limit())

	limited := newLimiter(config.RateLimit{PerSecond: 2, Burst: 0})
	assert.Equal(t, rate.Limit(2), limited.Limit())
	assert.Equal(t, 1, limited.Burst())
}
