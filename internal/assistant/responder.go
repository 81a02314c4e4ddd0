package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/trade-connect/internal/llm"
	"github.com/jonathan/trade-connect/internal/prompts"
	"github.com/jonathan/trade-connect/internal/types"
)

// historyWindow is how many earlier messages are quoted back to the model.
const historyWindow = 10

// Request is what a Responder sees of a conversation turn.
type Request struct {
	Role    string
	Message string
	History []types.Message // earlier turns, oldest first
}

// Responder produces the assistant's reply to a message.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
	// Name is reported as the source of a reply.
	Name() string
}

type keywordRule struct {
	words []string
	reply string
}

// KeywordResponder answers from fixed replies chosen by keywords in the
// message. It never fails.
type KeywordResponder struct {
	rules    []keywordRule
	fallback string
}

// NewKeywordResponder loads the keyword replies from the embedded prompts.
func NewKeywordResponder() (*KeywordResponder, error) {
	get := func(key string) (string, error) { return prompts.Get(prompts.Keywords, key) }

	product, err := get("product")
	if err != nil {
		return nil, err
	}
	document, err := get("document")
	if err != nil {
		return nil, err
	}
	connect, err := get("connect")
	if err != nil {
		return nil, err
	}
	fallback, err := get("default")
	if err != nil {
		return nil, err
	}

	return &KeywordResponder{
		rules: []keywordRule{
			{words: []string{"product"}, reply: product},
			{words: []string{"document", "file"}, reply: document},
			{words: []string{"connect", "buyer", "supplier"}, reply: connect},
		},
		fallback: fallback,
	}, nil
}

// Respond implements Responder. The first rule with a matching keyword
// wins.
func (k *KeywordResponder) Respond(_ context.Context, req Request) (string, error) {
	msg := strings.ToLower(req.Message)
	for _, rule := range k.rules {
		for _, w := range rule.words {
			if strings.Contains(msg, w) {
				return rule.reply, nil
			}
		}
	}
	return k.fallback, nil
}

// Name implements Responder.
func (k *KeywordResponder) Name() string { return "keyword" }

// LLMResponder answers through a language model under the export advisor
// instruction.
type LLMResponder struct {
	client llm.Client
	system string
	turn   string
	tier   llm.ModelTier
}

// NewLLMResponder wraps client.
func NewLLMResponder(client llm.Client) (*LLMResponder, error) {
	system, err := prompts.Get(prompts.Assistant, "advisor-system")
	if err != nil {
		return nil, err
	}
	turn, err := prompts.Get(prompts.Assistant, "chat-turn")
	if err != nil {
		return nil, err
	}
	return &LLMResponder{client: client, system: system, turn: turn, tier: llm.TierStandard}, nil
}

// Respond implements Responder.
func (l *LLMResponder) Respond(ctx context.Context, req Request) (string, error) {
	prompt := req.Message
	if len(req.History) > 0 {
		role := req.Role
		if role == "" {
			role = "user"
		}
		prompt = prompts.Format(l.turn, map[string]string{
			"History": formatHistory(req.History),
			"Role":    role,
			"Message": req.Message,
		})
	}

	reply, err := l.client.Generate(ctx, l.system, prompt, l.tier)
	if err != nil {
		return "", fmt.Errorf("llm responder: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("llm responder: empty reply")
	}
	return reply, nil
}

// Name implements Responder.
func (l *LLMResponder) Name() string { return l.client.Name() }

func formatHistory(history []types.Message) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var sb strings.Builder
	for i, m := range history {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.Sender)
		sb.WriteString(": ")
		sb.WriteString(m.Text)
	}
	return sb.String()
}
