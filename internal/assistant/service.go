// Package assistant implements the trade assistant chat: per-user
// conversations, keyword and LLM responders, and the FAQ.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/prompts"
	"github.com/jonathan/trade-connect/internal/session"
	"github.com/jonathan/trade-connect/internal/types"
)

// Message senders.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

const (
	historyPrefix       = "assistant:"
	defaultHistoryLimit = 50
	maxMessageRunes     = 4000
)

var (
	// ErrEmptyMessage is returned for a message that is blank once markup
	// is removed.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong is returned for messages over maxMessageRunes.
	ErrMessageTooLong = errors.New("message is too long")
)

// Options tune a Service. Zero values select defaults.
type Options struct {
	FAQ          []types.FAQ
	HistoryLimit int           // messages kept per user
	TTL          time.Duration // conversation lifetime; zero keeps it
	Logger       *zap.Logger
}

// Reply is the outcome of Send.
type Reply struct {
	User      types.Message `json:"user"`
	Assistant types.Message `json:"assistant"`
	Source    string        `json:"source"`
}

// Service keeps conversations in a session.Store and answers through a
// primary Responder, falling back to keyword replies when it fails.
type Service struct {
	store    session.Store
	primary  Responder
	fallback *KeywordResponder
	greeting string
	faq      []types.FAQ
	limit    int
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*keyLock
}

// keyLock serializes updates to one conversation. refs counts holders and
// waiters so the entry can be dropped once nobody needs it.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewService builds the assistant. primary may be nil, in which case every
// message is answered by keyword.
func NewService(store session.Store, primary Responder, opts Options) (*Service, error) {
	fallback, err := NewKeywordResponder()
	if err != nil {
		return nil, err
	}
	greeting, err := prompts.Get(prompts.Assistant, "greeting")
	if err != nil {
		return nil, err
	}
	if primary == nil {
		primary = fallback
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		store:    store,
		primary:  primary,
		fallback: fallback,
		greeting: greeting,
		faq:      opts.FAQ,
		limit:    opts.HistoryLimit,
		ttl:      opts.TTL,
		logger:   opts.Logger,
		now:      time.Now,
		locks:    make(map[string]*keyLock),
	}, nil
}

// Send records message from the user, obtains a reply and records it.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, role, message string) (*Reply, error) {
	text, err := cleanMessage(message)
	if err != nil {
		return nil, err
	}

	key := historyPrefix + userID.String()
	unlock := s.lock(key)
	defer unlock()

	history, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	userMsg := s.message(SenderUser, text)
	answer, source := s.respond(ctx, Request{Role: role, Message: text, History: history})
	aiMsg := s.message(SenderAI, answer)

	history = append(history, userMsg, aiMsg)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	if err := s.save(ctx, key, history); err != nil {
		return nil, err
	}

	return &Reply{User: userMsg, Assistant: aiMsg, Source: source}, nil
}

// Ask answers a single question without touching any conversation.
func (s *Service) Ask(ctx context.Context, message string) (*types.AskResponse, error) {
	text, err := cleanMessage(message)
	if err != nil {
		return nil, err
	}
	answer, source := s.respond(ctx, Request{Message: text})
	return &types.AskResponse{Status: "success", Reply: answer, Source: source}, nil
}

// History returns the user's conversation, oldest first. A user with no
// conversation sees the greeting.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]types.Message, error) {
	history, err := s.load(ctx, historyPrefix+userID.String())
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return []types.Message{{ID: "greeting", Sender: SenderAI, Text: s.greeting, Timestamp: s.now()}}, nil
	}
	return history, nil
}

// Reset deletes the user's conversation.
func (s *Service) Reset(ctx context.Context, userID uuid.UUID) error {
	key := historyPrefix + userID.String()
	unlock := s.lock(key)
	defer unlock()

	if err := s.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// FAQ returns the frequently asked questions.
func (s *Service) FAQ() []types.FAQ {
	out := make([]types.FAQ, len(s.faq))
	copy(out, s.faq)
	return out
}

func (s *Service) respond(ctx context.Context, req Request) (string, string) {
	answer, err := s.primary.Respond(ctx, req)
	if err == nil {
		return answer, s.primary.Name()
	}

	s.logger.Warn("assistant responder failed, using keyword reply",
		zap.String("responder", s.primary.Name()),
		zap.Error(err))
	answer, _ = s.fallback.Respond(ctx, req)
	return answer, s.fallback.Name()
}

func (s *Service) message(sender, text string) types.Message {
	return types.Message{ID: uuid.NewString(), Sender: sender, Text: text, Timestamp: s.now()}
}

func (s *Service) load(ctx context.Context, key string) ([]types.Message, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var history []types.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		// A corrupt entry is replaced on the next save.
		s.logger.Warn("discarding unreadable conversation", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return history, nil
}

func (s *Service) save(ctx context.Context, key string, history []types.Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := s.store.Set(ctx, key, string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

func (s *Service) lock(key string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.locksMu.Unlock()
	}
}

func cleanMessage(raw string) (string, error) {
	text := sanitizeText(raw)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		return "", ErrMessageTooLong
	}
	return text, nil
}
