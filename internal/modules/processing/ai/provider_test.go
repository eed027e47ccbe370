package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/leadforge/site/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "off", Enabled: false, DefaultModel: "a"},
		{ID: "first", Enabled: true, DefaultModel: "b"},
		{ID: "second", Enabled: true, DefaultModel: "c"},
	}}

	assert.Equal(t, "first", SelectProvider(cfg).ID)

	cfg.Provider = "second"
	cfg.Model = "override"
	p := SelectProvider(cfg)
	assert.Equal(t, "second", p.ID)
	assert.Equal(t, "override", p.DefaultModel)
	assert.Equal(t, "c", cfg.Providers[2].DefaultModel)

	cfg.Provider = "off"
	assert.Equal(t, "first", SelectProvider(cfg).ID)

	assert.Nil(t, SelectProvider(appcfg.AIConfig{}))
}

func TestNewCompleterErrors(t *testing.T) {
	_, err := NewCompleter(nil, 0)
	assert.ErrorIs(t, err, ErrNoProvider)

	_, err = NewCompleter(&appcfg.AIProvider{Type: "OpenAI"}, 0)
	assert.Error(t, err)

	_, err = NewCompleter(&appcfg.AIProvider{Type: "Gemini", APIKey: "k"}, 0)
	assert.Error(t, err)

	for _, typ := range []string{"OpenAI", "OpenAI-Compatible", "Anthropic", "OpenRouter", "open_router", "open-router"} {
		c, err := NewCompleter(&appcfg.AIProvider{Type: typ, APIKey: "k"}, 0)
		require.NoError(t, err, typ)
		assert.NotNil(t, c)
	}
}

func TestNormalizeProviderType(t *testing.T) {
	tests := map[string]string{
		"OpenAI":            "openai",
		"OpenAI-Compatible": "openaicompatible",
		"openai_compatible": "openaicompatible",
		"open_router":       "openrouter",
		" Open Router ":     "openrouter",
		"ANTHROPIC":         "anthropic",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeProviderType(in), in)
	}
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeOpenAIBaseURL(" "))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com"))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com/v1/"))
	assert.Equal(t, "https://proxy.example.com/openai/v1", normalizeOpenAIBaseURL("https://proxy.example.com/openai"))
}

func TestOpenAICompleterRoundTrip(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hello"}}]}`)
	}))
	defer srv.Close()

	c, err := NewCompleter(&appcfg.AIProvider{Type: "OpenAI", APIKey: "k", Endpoint: srv.URL, DefaultModel: "gpt-4o-mini"}, 256)
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAICompleterNonSuccessStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	c, err := NewCompleter(&appcfg.AIProvider{Type: "OpenAI", APIKey: "k", Endpoint: srv.URL}, 0)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0.7)
	require.ErrorIs(t, err, ErrCompletion)
	var ce *CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusServiceUnavailable, ce.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestAnthropicCompleterRoundTrip(t *testing.T) {
	var got struct {
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude",
			"content":[{"type":"text","text":"Hi "},{"type":"text","text":"there"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":2}}`)
	}))
	defer srv.Close()

	c, err := NewCompleter(&appcfg.AIProvider{Type: "Anthropic", APIKey: "k", Endpoint: srv.URL}, 512)
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
	require.Len(t, got.System, 1)
	assert.Equal(t, "sys", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, 512, got.MaxTokens)
}

func TestUnavailableCompleter(t *testing.T) {
	_, err := Unavailable(ErrNoProvider).Complete(context.Background(), nil, 0.7)
	assert.ErrorIs(t, err, ErrCompletion)
	assert.ErrorIs(t, err, ErrNoProvider)
}
