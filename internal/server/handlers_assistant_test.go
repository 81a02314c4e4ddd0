package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trade-connect/internal/assistant"
	"github.com/jonathan/trade-connect/internal/types"
)

func TestAssistantConversation(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, supplierEmail)

	w := env.do(t, http.MethodGet, "/api/assistant/messages", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var history types.ListResponse[types.Message]
	decode(t, w, &history)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "greeting", history.Items[0].ID)

	w = env.do(t, http.MethodPost, "/api/assistant/messages", map[string]string{
		"message": "How do I add a <b>product</b>?",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reply assistant.Reply
	decode(t, w, &reply)
	assert.Equal(t, "keyword", reply.Source)
	assert.Equal(t, "How do I add a product?", reply.User.Text)
	assert.Contains(t, reply.Assistant.Text, "Products section")

	w = env.do(t, http.MethodGet, "/api/assistant/messages", nil, token)
	decode(t, w, &history)
	require.Len(t, history.Items, 2)
	assert.Equal(t, assistant.SenderUser, history.Items[0].Sender)
	assert.Equal(t, assistant.SenderAI, history.Items[1].Sender)

	// Conversations are per user.
	w = env.do(t, http.MethodGet, "/api/assistant/messages", nil, env.login(t, buyerEmail))
	decode(t, w, &history)
	assert.Len(t, history.Items, 1)

	w = env.do(t, http.MethodDelete, "/api/assistant/messages", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/assistant/messages", nil, token)
	decode(t, w, &history)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "greeting", history.Items[0].ID)
}

func TestAssistantSend_Invalid(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, supplierEmail)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing", body: map[string]string{}},
		{name: "markup only", body: map[string]string{"message": "<script></script>"}},
		{name: "too long", body: map[string]string{"message": strings.Repeat("a", 4001)}},
		{name: "malformed", body: "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/assistant/messages", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestAssistantFAQ(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/assistant/faq", nil, env.login(t, buyerEmail))
	require.Equal(t, http.StatusOK, w.Code)

	var faq types.ListResponse[types.FAQ]
	decode(t, w, &faq)
	assert.Equal(t, 4, faq.Total)
	for _, f := range faq.Items {
		assert.NotEmpty(t, strings.TrimSpace(f.Question))
		assert.NotEmpty(t, f.Answer)
	}
}

func TestAsk(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/ask", map[string]string{"message": "Which documents do I need?"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.AskResponse
	decode(t, w, &resp)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "keyword", resp.Source)
	assert.Contains(t, resp.Reply, "Documents section")

	w = env.do(t, http.MethodPost, "/ask", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Missing 'message' in request"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/ask", map[string]string{"message": "<i></i>"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"message is empty"}`, w.Body.String())
}
