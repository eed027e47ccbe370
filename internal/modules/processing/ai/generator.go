package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leadforge/site/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Temperature used for every generation call.
const Temperature = 0.7

var (
	ErrTitleGeneration   = errors.New("title generation failed")
	ErrOutlineGeneration = errors.New("outline generation failed")
	ErrSectionGeneration = errors.New("section generation failed")
)

// SectionError names the outline segment whose generation failed.
type SectionError struct {
	Index int
	Err   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d generation failed: %v", e.Index+1, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

func (e *SectionError) Is(target error) bool { return target == ErrSectionGeneration }

// Generator turns article inputs into prompts and returns the model output.
// It holds no per-run state and is safe for concurrent use.
type Generator struct {
	completer Completer
	logger    *zap.Logger
}

func NewGenerator(c Completer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: c, logger: logger.Named("generator")}
}

func (g *Generator) call(ctx context.Context, stage string, messages []Message) (string, error) {
	start := time.Now()
	text, err := g.completer.Complete(ctx, messages, Temperature)
	metrics.GenerationCallDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	metrics.GenerationCallsTotal.WithLabelValues(stage, metrics.Outcome(err)).Inc()
	if err != nil {
		g.logger.Warn("completion failed", zap.String("stage", stage), zap.Duration("took", time.Since(start)), zap.Error(err))
	}
	return text, err
}

// Title returns the trimmed model output. The length and format rules in the
// prompt are not enforced on the result.
func (g *Generator) Title(ctx context.Context, req TitleRequest) (string, error) {
	text, err := g.call(ctx, "title", buildTitleMessages(req))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTitleGeneration, err)
	}
	return strings.TrimSpace(text), nil
}

// Outline returns the trimmed heading outline. The heading count is requested,
// not validated.
func (g *Generator) Outline(ctx context.Context, req OutlineRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutlineGeneration, err)
	}
	text, err := g.call(ctx, "outline", buildOutlineMessages(req))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutlineGeneration, err)
	}
	return strings.TrimSpace(text), nil
}

// Section writes one outline segment as HTML and runs CleanupSection on it.
func (g *Generator) Section(ctx context.Context, req SectionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", &SectionError{Index: req.SectionIndex, Err: err}
	}
	text, err := g.call(ctx, "section", buildSectionMessages(req))
	if err != nil {
		return "", &SectionError{Index: req.SectionIndex, Err: err}
	}
	return CleanupSection(text), nil
}
