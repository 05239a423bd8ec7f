// Package chat owns the message history of one chat route and performs the
// actual model invocation for each turn.
package chat

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/opencode-ai/agentchat/internal/conversation"
	"github.com/opencode-ai/agentchat/internal/errors"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/llm/provider"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"golang.org/x/time/rate"
)

const titleWidth = 40

// ProviderResolver returns the provider serving the given backend.
type ProviderResolver func(models.ModelProvider) (provider.Provider, error)

type Deps struct {
	Conversations conversation.Service
	Messages      message.Service
	Registry      func() models.Registry
	Providers     ProviderResolver
	// Limiter throttles PostChat. Nil means unlimited.
	Limiter *rate.Limiter
	// OnClose runs once, after the session has stopped.
	OnClose func(*Session)
}

// Session is the chat history of one route. All methods are safe for
// concurrent use.
type Session struct {
	*pubsub.Broker[Event]

	deps  Deps
	ctx   context.Context
	path  string
	bound bool

	mu              sync.RWMutex
	conversationID  string
	messages        []message.Message
	loading         bool
	loadingMessages bool
	generation      int
	cancel          context.CancelFunc

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates the session for path. When conversationID is set its stored
// messages are loaded in the background and LoadingMessages reports true
// until they arrive.
func New(ctx context.Context, deps Deps, path string, conversationID string) *Session {
	s := &Session{
		Broker:         pubsub.NewBroker[Event](),
		deps:           deps,
		ctx:            ctx,
		path:           path,
		bound:          conversationID != "",
		conversationID: conversationID,
	}
	if s.bound {
		s.loadingMessages = true
		s.wg.Add(1)
		go s.load(s.generation, conversationID)
	}
	return s
}

func (s *Session) Path() string {
	return s.path
}

func (s *Session) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) LoadingMessages() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingMessages
}

func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages) == 0
}

// Messages returns a snapshot of the history in display order.
func (s *Session) Messages() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]message.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) load(generation int, conversationID string) {
	defer s.wg.Done()
	defer logging.RecoverPanic("chat.load", nil)

	msgs, err := s.deps.Messages.List(s.ctx, conversationID)
	if err != nil {
		logging.ErrorPersist("Failed to load messages", "conversation", conversationID, "error", err)
	}

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return
	}
	if err == nil {
		s.messages = msgs
	}
	s.loadingMessages = false
	s.mu.Unlock()

	s.publish(MessagesChangedEvent)
	s.publish(LoadingChangedEvent)
}

// PostChat starts a turn. The user message and an empty assistant message are
// stored before it returns; the model runs in the background and its output
// is observed through Loading, Messages and the published events. A nil
// model falls back to the first registered model.
func (s *Session) PostChat(text string, disableStreaming bool, model *models.Descriptor) {
	if strings.TrimSpace(text) == "" {
		logging.Debug("Ignoring empty chat message", "path", s.path)
		return
	}
	if s.Loading() {
		logging.WarnPersist("A response is still being generated, please wait...")
		return
	}
	if s.deps.Limiter != nil && !s.deps.Limiter.Allow() {
		logging.WarnPersist("Too many messages, slow down a little")
		return
	}

	selected, modelErr := s.resolveModel(model)

	s.mu.Lock()
	generation := s.generation
	conversationID := s.conversationID
	s.mu.Unlock()

	if conversationID == "" {
		title := ansi.Truncate(firstLine(text), titleWidth, "…")
		c, err := s.deps.Conversations.Create(s.ctx, title, selected.ID)
		if err != nil {
			logging.ErrorPersist("Failed to create conversation", "error", err)
			return
		}
		conversationID = c.ID
	}

	userMsg, err := s.deps.Messages.Create(s.ctx, conversationID, message.CreateMessageParams{
		Role:    message.User,
		Content: text,
	})
	if err != nil {
		logging.ErrorPersist("Failed to store message", "error", err)
		return
	}
	reply, err := s.deps.Messages.Create(s.ctx, conversationID, message.CreateMessageParams{
		Role:  message.Assistant,
		Model: selected.ID,
	})
	if err != nil {
		logging.ErrorPersist("Failed to store message", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	if generation != s.generation {
		// cleared while the turn was being stored
		s.mu.Unlock()
		cancel()
		return
	}
	s.conversationID = conversationID
	s.messages = append(s.messages, userMsg, reply)
	history := make([]message.Message, len(s.messages))
	copy(history, s.messages)
	s.loading = true
	s.cancel = cancel
	s.mu.Unlock()

	s.publish(MessagesChangedEvent)
	s.publish(LoadingChangedEvent)

	logging.Info("Posting chat",
		"path", s.path,
		"conversation", conversationID,
		"model", selected.ID,
		"session", selected.SessionID,
		"streaming", !disableStreaming,
	)

	s.wg.Add(1)
	go s.run(ctx, generation, reply, history, selected, modelErr, disableStreaming)
}

func (s *Session) resolveModel(model *models.Descriptor) (models.Descriptor, error) {
	if model != nil {
		return *model, nil
	}
	if s.deps.Registry != nil {
		if r := s.deps.Registry(); !r.Empty() {
			logging.Warn("No model selected, using the first registered model", "model", r.AgentNames[0])
			return r.AgentModels[0], nil
		}
	}
	return models.Descriptor{}, errors.New(errors.ErrBadRequest, "no model available")
}

func (s *Session) run(
	ctx context.Context,
	generation int,
	reply message.Message,
	history []message.Message,
	model models.Descriptor,
	modelErr error,
	disableStreaming bool,
) {
	defer s.wg.Done()
	defer logging.RecoverPanic("chat.run", func() {
		s.finish(generation, reply, message.FinishReasonError)
	})

	if modelErr != nil {
		s.fail(generation, reply, modelErr)
		return
	}
	p, err := s.deps.Providers(model.Provider)
	if err != nil {
		s.fail(generation, reply, errors.Wrap(errors.ErrUnavailable, err, "provider "+string(model.Provider)))
		return
	}

	if disableStreaming {
		resp, err := p.SendMessages(ctx, model, history)
		if err != nil {
			s.fail(generation, reply, err)
			return
		}
		reply.Content = resp.Content
		s.finish(generation, reply, resp.FinishReason)
		return
	}

	for event := range p.StreamResponse(ctx, model, history) {
		switch event.Type {
		case provider.EventContentDelta:
			reply.Content += event.Content
			s.update(generation, reply)
		case provider.EventWarning:
			logging.WarnPersist(event.Info)
		case provider.EventError:
			s.fail(generation, reply, event.Error)
			return
		case provider.EventComplete:
			if event.Response != nil && event.Response.Content != "" {
				reply.Content = event.Response.Content
			}
			finish := message.FinishReasonEndTurn
			if event.Response != nil && event.Response.FinishReason != "" {
				finish = event.Response.FinishReason
			}
			s.finish(generation, reply, finish)
			return
		}
	}
	// stream closed without a terminal event
	s.finish(generation, reply, message.FinishReasonUnknown)
}

func (s *Session) fail(generation int, reply message.Message, err error) {
	if stderrors.Is(err, context.Canceled) {
		s.finish(generation, reply, message.FinishReasonCanceled)
		return
	}
	logging.ErrorPersist("Chat turn failed", "error", err)
	if reply.Content != "" {
		reply.Content += "\n\n"
	}
	reply.Content += fmt.Sprintf("Error: %v", err)
	s.finish(generation, reply, message.FinishReasonError)
}

// update persists reply and, unless the session was cleared since the turn
// started, replaces the in-memory copy. A bound session that was cleared
// keeps nothing.
func (s *Session) update(generation int, reply message.Message) {
	current := s.replace(generation, reply)
	if !current && s.bound && s.stale(generation) {
		// Clear already deleted the stored reply
		return
	}
	if err := s.deps.Messages.Update(context.Background(), reply); err != nil {
		logging.Error("Failed to persist message", "id", reply.ID, "error", err)
	}
	if current {
		s.publish(MessagesChangedEvent)
	}
}

func (s *Session) finish(generation int, reply message.Message, reason message.FinishReason) {
	reply.FinishReason = reason
	s.update(generation, reply)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.loading = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.publish(LoadingChangedEvent)
}

func (s *Session) stale(generation int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return generation != s.generation
}

func (s *Session) replace(generation int, reply message.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	for i := range s.messages {
		if s.messages[i].ID == reply.ID {
			s.messages[i] = reply
			return true
		}
	}
	return false
}

// Clear cancels any running turn and drops the history. A session created
// without a conversation forgets the one it started, so the next PostChat
// begins a new conversation; a session bound to a conversation deletes its
// stored messages.
func (s *Session) Clear() {
	s.mu.Lock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	conversationID := s.conversationID
	if !s.bound {
		s.conversationID = ""
	}
	s.messages = nil
	wasLoading := s.loading || s.loadingMessages
	s.loading = false
	s.loadingMessages = false
	s.mu.Unlock()

	if s.bound && conversationID != "" {
		if err := s.deps.Messages.DeleteConversationMessages(s.ctx, conversationID); err != nil {
			logging.ErrorPersist("Failed to clear conversation", "error", err)
		}
	}

	logging.Debug("Chat cleared", "path", s.path, "conversation", conversationID)
	s.publish(MessagesChangedEvent)
	if wasLoading {
		s.publish(LoadingChangedEvent)
	}
}

// Close cancels running work and waits for background goroutines. Later
// calls wait for the first one and return.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		s.wg.Wait()
		s.Shutdown()
		if s.deps.OnClose != nil {
			s.deps.OnClose(s)
		}
	})
}

func (s *Session) publish(t pubsub.EventType) {
	s.mu.RLock()
	ev := Event{
		Path:            s.path,
		ConversationID:  s.conversationID,
		Loading:         s.loading,
		LoadingMessages: s.loadingMessages,
		MessageCount:    len(s.messages),
	}
	s.mu.RUnlock()
	s.Publish(t, ev)
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}
