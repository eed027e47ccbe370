package ai

import (
	"context"
	"errors"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/leadforge/site/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-haiku-4-5-20251001"
	defaultOpenRouterModel = "openai/gpt-4o-mini"
	defaultOpenRouterBase  = "https://openrouter.ai/api/v1"
	defaultMaxTokens       = 4096
)

// normalizeProviderType folds case and drops separators, so "OpenAI-Compatible",
// "open_router" and "Open Router" match their plain names.
func normalizeProviderType(raw string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// SelectProvider returns the provider named by cfg.Provider, or the first
// enabled one. cfg.Model overrides the provider's default model.
func SelectProvider(cfg appcfg.AIConfig) *appcfg.AIProvider {
	pick := func(p appcfg.AIProvider) *appcfg.AIProvider {
		if m := strings.TrimSpace(cfg.Model); m != "" {
			p.DefaultModel = m
		}
		return &p
	}

	if id := strings.TrimSpace(cfg.Provider); id != "" {
		for _, p := range cfg.Providers {
			if p.Enabled && strings.TrimSpace(p.ID) == id {
				return pick(p)
			}
		}
	}
	for _, p := range cfg.Providers {
		if p.Enabled {
			return pick(p)
		}
	}
	return nil
}

// NewCompleter builds the client for the provider's type.
func NewCompleter(provider *appcfg.AIProvider, maxTokens int) (Completer, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	apiKey := strings.TrimSpace(provider.APIKey)
	if apiKey == "" {
		return nil, errors.New("AI provider api key is empty")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	modelID := strings.TrimSpace(provider.DefaultModel)
	endpoint := strings.TrimSpace(provider.Endpoint)

	switch normalizeProviderType(provider.Type) {
	case "anthropic":
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		return &anthropicCompleter{
			client:    anthropicclient.NewClient(opts...),
			model:     modelID,
			maxTokens: int64(maxTokens),
		}, nil

	case "openrouter":
		if modelID == "" {
			modelID = defaultOpenRouterModel
		}
		base := normalizeOpenAIBaseURL(endpoint)
		if base == "" {
			base = defaultOpenRouterBase
		}
		client := openaiclient.NewClient(
			openaioption.WithAPIKey(apiKey),
			openaioption.WithBaseURL(base),
			openaioption.WithMaxRetries(0),
		)
		return &jetifyCompleter{
			model:     jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)),
			maxTokens: maxTokens,
		}, nil

	case "", "openai", "openaicompatible":
		if modelID == "" {
			modelID = defaultOpenAIModel
		}
		opts := []openaioption.RequestOption{
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(0),
		}
		if base := normalizeOpenAIBaseURL(endpoint); base != "" {
			opts = append(opts, openaioption.WithBaseURL(base))
		}
		return &openAICompleter{
			client:    openaiclient.NewClient(opts...),
			model:     modelID,
			maxTokens: int64(maxTokens),
		}, nil

	default:
		return nil, errors.New("unsupported AI provider type: " + provider.Type)
	}
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

type openAICompleter struct {
	client    openaiclient.Client
	model     string
	maxTokens int64
}

func (o *openAICompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	params := openaiclient.ChatCompletionNewParams{
		Model:               openaiclient.ChatModel(o.model),
		Messages:            make([]openaiclient.ChatCompletionMessageParamUnion, 0, len(messages)),
		Temperature:         openaiclient.Float(temperature),
		MaxCompletionTokens: openaiclient.Int(o.maxTokens),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openaiclient.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openaiclient.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaiclient.Error
		if errors.As(err, &apiErr) {
			return "", &CompletionError{Provider: "openai", StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", &CompletionError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &CompletionError{Provider: "openai", Err: errEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicCompleter struct {
	client    anthropicclient.Client
	model     string
	maxTokens int64
}

func (a *anthropicCompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	params := anthropicclient.MessageNewParams{
		Model:       anthropicclient.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropicclient.Float(temperature),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.System = append(params.System, anthropicclient.TextBlockParam{Text: m.Content})
		default:
			params.Messages = append(params.Messages, anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(m.Content)))
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropicclient.Error
		if errors.As(err, &apiErr) {
			return "", &CompletionError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", &CompletionError{Provider: "anthropic", Err: err}
	}

	var full strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", &CompletionError{Provider: "anthropic", Err: errEmptyResponse}
	}
	return full.String(), nil
}

// jetifyCompleter drives OpenRouter through the provider-neutral jetify model.
type jetifyCompleter struct {
	model     jetapi.LanguageModel
	maxTokens int
}

func (j *jetifyCompleter) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	prompt := make([]jetapi.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			prompt = append(prompt, &jetapi.SystemMessage{Content: m.Content})
		default:
			prompt = append(prompt, &jetapi.UserMessage{Content: jetapi.ContentFromText(m.Content)})
		}
	}

	resp, err := jetai.GenerateText(ctx, prompt,
		jetai.WithModel(j.model),
		jetai.WithMaxOutputTokens(j.maxTokens),
		jetai.WithTemperature(temperature),
	)
	if err != nil {
		var apiErr *openaiclient.Error
		if errors.As(err, &apiErr) {
			return "", &CompletionError{Provider: "openrouter", StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", &CompletionError{Provider: "openrouter", Err: err}
	}
	text, err := extractTextFromAIResponse(resp)
	if err != nil {
		return "", &CompletionError{Provider: "openrouter", Err: err}
	}
	return text, nil
}

func extractTextFromAIResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyResponse
	}
	var full strings.Builder
	for _, block := range resp.Content {
		if textBlock, ok := block.(*jetapi.TextBlock); ok {
			full.WriteString(textBlock.Text)
		}
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", errEmptyResponse
	}
	return full.String(), nil
}
