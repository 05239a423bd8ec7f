package page

import (
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/message"
)

var AgentChatPage PageID = "agent"

// DefaultTitle is shown when no conversation is bound or its title is unknown.
const DefaultTitle = "Agent Chat"

// ChatSession is the message history and turn runner behind the page.
type ChatSession interface {
	Loading() bool
	LoadingMessages() bool
	IsEmpty() bool
	Messages() []message.Message
	Clear()
	// PostChat starts a turn without waiting for it. model may be nil.
	PostChat(text string, disableStreaming bool, model *models.Descriptor)
}

// TitleLookup resolves a conversation's title, "" when unknown.
type TitleLookup func(id string) string

type Scroller interface {
	ScrollToTop()
	ScrollToBottom()
}

// Navigation is a payload carried by one navigation to the page. Every
// *Navigation value is a separate arrival, even when two carry equal content.
type Navigation struct {
	Content string
}

type AgentChatConfig struct {
	State          *PageState
	Session        ChatSession
	Registry       models.Registry
	TitleLookup    TitleLookup
	Scroller       Scroller
	ConversationID string
	// Placeholder overrides DefaultTitle.
	Placeholder string
}

// AgentChatController coordinates the page state with the chat session, the
// model registry and the scroll position. It is driven from the UI event loop
// and is not safe for concurrent use.
type AgentChatController struct {
	state          *PageState
	session        ChatSession
	registry       models.Registry
	lookup         TitleLookup
	lookupVersion  int
	scroller       Scroller
	conversationID string
	placeholder    string

	arrival *Navigation

	observed bool
	loading  bool

	title titleMemo
}

type titleMemo struct {
	valid         bool
	id            string
	lookupVersion int
	value         string
}

func NewAgentChatController(cfg AgentChatConfig) *AgentChatController {
	state := cfg.State
	if state == nil {
		state = NewPageState()
	}
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = DefaultTitle
	}
	c := &AgentChatController{
		state:          state,
		session:        cfg.Session,
		registry:       cfg.Registry,
		lookup:         cfg.TitleLookup,
		scroller:       cfg.Scroller,
		conversationID: cfg.ConversationID,
		placeholder:    placeholder,
	}
	state.Subscribe(func(*PageState) { c.reconcileModel() })
	c.reconcileModel()
	return c
}

func (c *AgentChatController) State() *PageState {
	return c.state
}

func (c *AgentChatController) Session() ChatSession {
	return c.session
}

func (c *AgentChatController) ConversationID() string {
	return c.conversationID
}

func (c *AgentChatController) Registry() models.Registry {
	return c.registry
}

// Navigate delivers a navigation payload. A nil payload leaves the draft
// alone.
func (c *AgentChatController) Navigate(nav *Navigation) {
	c.reconcileDraft(nav)
}

// Route binds the page to a conversation and its session. The page state
// survives route changes.
func (c *AgentChatController) Route(conversationID string, session ChatSession) {
	c.conversationID = conversationID
	c.session = session
	c.observed = false
}

func (c *AgentChatController) SetRegistry(r models.Registry) {
	c.registry = r
	c.reconcileModel()
}

func (c *AgentChatController) SetTitleLookup(lookup TitleLookup) {
	c.lookup = lookup
	c.lookupVersion++
}

// InvalidateTitle drops the memoized title when it belongs to id.
func (c *AgentChatController) InvalidateTitle(id string) {
	if c.title.id == id {
		c.title.valid = false
	}
}

// reconcileDraft copies the content of a newly arrived payload into the
// draft, overwriting whatever was typed. Seeing the same payload again is a
// no-op.
func (c *AgentChatController) reconcileDraft(nav *Navigation) {
	if nav == nil || nav == c.arrival {
		return
	}
	c.arrival = nav
	c.state.SetContent(nav.Content)
}

// reconcileModel selects the first available model while none is selected.
func (c *AgentChatController) reconcileModel() {
	if c.state.ModelID() != "" || c.registry.Empty() {
		return
	}
	c.state.SetModelID(c.registry.AgentNames[0])
}

// Send posts the draft with a copy of the selected model stamped with the
// page's session id, then clears the draft without waiting for the turn.
func (c *AgentChatController) Send() {
	content := c.state.Content()

	var model *models.Descriptor
	if d, ok := c.registry.Find(c.state.ModelID()); ok {
		stamped := d.ForSession(c.state.SessionID())
		model = &stamped
	} else {
		logging.Debug("Selected model is not registered", "model", c.state.ModelID())
	}

	if c.session != nil {
		c.session.PostChat(content, false, model)
	}
	c.state.SetContent("")
}

// CanReset reports whether the page offers Reset. Pages bound to a stored
// conversation do not.
func (c *AgentChatController) CanReset() bool {
	return c.conversationID == ""
}

// Reset clears the session history and the draft.
func (c *AgentChatController) Reset() {
	if c.session != nil {
		c.session.Clear()
	}
	c.state.SetContent("")
}

// SyncScroll observes a value of the session's loading flag and moves the
// view when it differs from the last observed one. Callers report every value
// the flag takes, in order, so a turn that starts and ends between two
// renders still scrolls. The first observation after mount or a route change
// counts as a change. It reports whether a scroll was requested.
func (c *AgentChatController) SyncScroll(loading bool) bool {
	if c.session == nil {
		return false
	}
	if c.observed && loading == c.loading {
		return false
	}
	c.observed = true
	c.loading = loading

	if c.scroller == nil {
		return false
	}
	if len(c.session.Messages()) > 0 {
		c.scroller.ScrollToBottom()
	} else {
		c.scroller.ScrollToTop()
	}
	return true
}

// Title returns the bound conversation's title or the placeholder.
func (c *AgentChatController) Title() string {
	if c.title.valid && c.title.id == c.conversationID && c.title.lookupVersion == c.lookupVersion {
		return c.title.value
	}
	value := c.placeholder
	if c.conversationID != "" && c.lookup != nil {
		if t := c.lookup(c.conversationID); t != "" {
			value = t
		}
	}
	c.title = titleMemo{
		valid:         true,
		id:            c.conversationID,
		lookupVersion: c.lookupVersion,
		value:         value,
	}
	return value
}

// CycleModel selects the registry entry after the current one, wrapping
// around.
func (c *AgentChatController) CycleModel() {
	if c.registry.Empty() {
		return
	}
	next := 0
	for i, name := range c.registry.AgentNames {
		if name == c.state.ModelID() {
			next = (i + 1) % len(c.registry.AgentNames)
			break
		}
	}
	c.state.SetModelID(c.registry.AgentNames[next])
}
