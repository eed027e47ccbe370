package ai

import (
	"context"
	"errors"
	"fmt"
)

// Role of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of a completion prompt.
type Message struct {
	Role    Role
	Content string
}

// Completer performs a single completion call. Implementations never retry.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, messages []Message, temperature float64) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	return f(ctx, messages, temperature)
}

var (
	// ErrCompletion matches every *CompletionError.
	ErrCompletion = errors.New("completion failed")
	// ErrNoProvider is returned when no enabled provider is configured.
	ErrNoProvider = errors.New("no AI provider configured")

	errEmptyResponse = errors.New("empty response from AI")
)

// CompletionError reports a failed upstream call. StatusCode is zero for
// transport errors and empty responses.
type CompletionError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s completion failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

func (e *CompletionError) Is(target error) bool { return target == ErrCompletion }

// Unavailable returns a Completer that always fails with cause. It stands in
// when the process starts without a usable provider.
func Unavailable(cause error) Completer {
	return CompleterFunc(func(context.Context, []Message, float64) (string, error) {
		return "", &CompletionError{Provider: "none", Err: cause}
	})
}
