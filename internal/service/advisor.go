package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// FallbackAdvice is returned whenever the responder fails.
	FallbackAdvice = "I'm having a bit of trouble connecting to my laptop-protection database. " +
		"Generally, if you're a digital nomad, Privacy is a must. If you're a developer or student, " +
		"Blue Light helps with eye fatigue. All Safio.in laptop guards come with a 3-month warranty!"
	// DisconnectedReply replaces an empty answer.
	DisconnectedReply = "Sorry, I got disconnected."
	Greeting          = "Hi! I'm Safio Assistant, your screen protection expert. How can I help you today?"
)

var (
	ErrEmptyQuery    = errors.New("query is empty")
	ErrAssistantBusy = errors.New("assistant is still answering")
)

// Responder turns a free-text question into a free-text answer.
type Responder interface {
	Respond(ctx context.Context, query string) (string, error)
}

// Advisor wraps a Responder so callers always get some text back.
type Advisor struct {
	responder Responder
	timeout   time.Duration
	log       *zap.Logger
}

// NewAdvisor; timeout 0 means the call is not bounded.
func NewAdvisor(r Responder, timeout time.Duration, log *zap.Logger) *Advisor {
	return &Advisor{responder: r, timeout: timeout, log: log}
}

// Advise answers query. Responder errors yield FallbackAdvice, empty answers
// yield DisconnectedReply. Only an empty query is an error.
func (a *Advisor) Advise(ctx context.Context, query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	answer, err := a.responder.Respond(ctx, q)
	if err != nil {
		a.log.Warn("Advisory call failed, using fallback", zap.Error(err))
		return FallbackAdvice, nil
	}
	if strings.TrimSpace(answer) == "" {
		return DisconnectedReply, nil
	}
	return answer, nil
}

// Ask appends the question and the answer to t. Only one question per
// transcript may be in flight.
func (a *Advisor) Ask(ctx context.Context, t *Transcript, query string) ([]ChatMessage, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if !t.begin(q) {
		return nil, ErrAssistantBusy
	}
	answer, err := a.Advise(ctx, q)
	if err != nil {
		answer = DisconnectedReply
	}
	return t.finish(answer), nil
}

// ChatMessage is one bubble of the assistant chat.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Transcript is the chat history of a session.
type Transcript struct {
	mu       sync.Mutex
	messages []ChatMessage
	loading  bool
}

func NewTranscript() *Transcript {
	return &Transcript{messages: []ChatMessage{{Role: RoleAI, Text: Greeting}}}
}

func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ChatMessage(nil), t.messages...)
}

func (t *Transcript) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Transcript) begin(q string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loading {
		return false
	}
	t.loading = true
	t.messages = append(t.messages, ChatMessage{Role: RoleUser, Text: q})
	return true
}

func (t *Transcript) finish(answer string) []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	t.messages = append(t.messages, ChatMessage{Role: RoleAI, Text: answer})
	return append([]ChatMessage(nil), t.messages...)
}
