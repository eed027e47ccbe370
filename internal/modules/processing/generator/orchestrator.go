package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/ai"
	"github.com/leadforge/site/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrWrongStage   = errors.New("operation not allowed in the current stage")
	ErrBusy         = errors.New("a generation step is already running")
	ErrEmptyOutline = errors.New("outline has no sections")
	ErrPersistence  = errors.New("failed to save draft")
)

// DraftWriter stores a finished article as an AI-generated draft post.
type DraftWriter interface {
	CreateAIDraft(ctx context.Context, title, content, authorID string, meta models.GenerationMetadata) (*models.PostModel, error)
}

// ProgressFunc observes every progress value a run reports.
type ProgressFunc func(runID string, progress int)

type Options struct {
	// Concurrency > 1 generates sections in parallel. Content order always
	// follows the outline.
	Concurrency int
	OnProgress  ProgressFunc
}

// Orchestrator drives runs through parameters, outline and generating.
type Orchestrator struct {
	gen    *ai.Generator
	drafts DraftWriter
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

func NewOrchestrator(gen *ai.Generator, drafts DraftWriter, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		gen:    gen,
		drafts: drafts,
		opts:   opts,
		logger: logger.Named("orchestrator"),
		now:    time.Now,
	}
}

// Submit validates the parameters, then asks for a title and an outline built
// on it. On success the run moves to the outline stage. On failure it stays in
// the parameters stage and keeps whatever was produced.
func (o *Orchestrator) Submit(ctx context.Context, run *Run, in ParameterInput) error {
	run.mu.Lock()
	st, ok := run.stage.(*ParametersStage)
	if !ok {
		run.mu.Unlock()
		return ErrWrongStage
	}
	if run.busy {
		run.mu.Unlock()
		return ErrBusy
	}
	params := NewParameters(in, run.defaults)
	st.Params = params
	if err := params.Validate(); err != nil {
		run.errMsg = err.Error()
		run.changedLocked(o.now())
		run.mu.Unlock()
		return err
	}
	run.busy, run.step, run.errMsg = true, StepTitle, ""
	run.changedLocked(o.now())
	run.mu.Unlock()

	title, err := o.gen.Title(ctx, params.titleRequest())
	if err != nil {
		o.fail(run, "Failed to generate title. Please try again.", err)
		return err
	}

	run.mu.Lock()
	st.Title = title
	run.changedLocked(o.now())
	run.mu.Unlock()

	outline, err := o.gen.Outline(ctx, params.outlineRequest(title))
	if err != nil {
		o.fail(run, "Failed to generate outline. Please try again.", err)
		return err
	}

	run.mu.Lock()
	run.stage = &OutlineStage{
		Params:        params,
		Title:         title,
		Outline:       outline,
		EditedOutline: outline,
	}
	run.busy, run.step = false, StepNone
	run.changedLocked(o.now())
	run.mu.Unlock()
	return nil
}

// EditOutline replaces the user's working copy of the outline.
func (o *Orchestrator) EditOutline(run *Run, text string) error {
	run.mu.Lock()
	defer run.mu.Unlock()
	st, ok := run.stage.(*OutlineStage)
	if !ok {
		return ErrWrongStage
	}
	st.EditedOutline = text
	run.errMsg = ""
	run.changedLocked(o.now())
	return nil
}

// Back returns to the previous stage without discarding generated text.
// A generating run can only step back once it has failed.
func (o *Orchestrator) Back(run *Run) error {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.busy {
		return ErrBusy
	}
	switch st := run.stage.(type) {
	case *OutlineStage:
		run.stage = &ParametersStage{
			Params:        st.Params,
			Title:         st.Title,
			Outline:       st.Outline,
			EditedOutline: st.EditedOutline,
		}
	case *GeneratingStage:
		if !st.Failed {
			return ErrWrongStage
		}
		run.stage = &OutlineStage{
			Params:        st.Params,
			Title:         st.Title,
			Outline:       st.Outline,
			EditedOutline: st.EditedOutline,
		}
	default:
		return ErrWrongStage
	}
	run.errMsg = ""
	run.changedLocked(o.now())
	return nil
}

// Confirm generates every section of the edited outline and saves the draft.
// It blocks until the draft is saved or a step fails.
func (o *Orchestrator) Confirm(ctx context.Context, run *Run) error {
	st, err := o.startGenerating(run)
	if err != nil {
		return err
	}
	return o.generate(ctx, run, st)
}

// ConfirmAsync is Confirm with the generation detached from ctx's lifetime.
// Stage errors are returned immediately; later failures land on the run.
func (o *Orchestrator) ConfirmAsync(ctx context.Context, run *Run) error {
	st, err := o.startGenerating(run)
	if err != nil {
		return err
	}
	go func() {
		_ = o.generate(context.WithoutCancel(ctx), run, st)
	}()
	return nil
}

// startGenerating enters the generating stage. A failed generating run may be
// confirmed again; it starts over from the first section.
func (o *Orchestrator) startGenerating(run *Run) (*GeneratingStage, error) {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.busy {
		return nil, ErrBusy
	}

	var next *GeneratingStage
	switch st := run.stage.(type) {
	case *OutlineStage:
		next = &GeneratingStage{Params: st.Params, Title: st.Title, Outline: st.Outline, EditedOutline: st.EditedOutline}
	case *GeneratingStage:
		if !st.Failed {
			return nil, ErrWrongStage
		}
		next = &GeneratingStage{Params: st.Params, Title: st.Title, Outline: st.Outline, EditedOutline: st.EditedOutline}
	default:
		return nil, ErrWrongStage
	}

	next.Segments = SplitOutline(next.EditedOutline)
	if len(next.Segments) == 0 {
		run.errMsg = "The outline is empty. Add at least one section."
		run.changedLocked(o.now())
		return nil, ErrEmptyOutline
	}

	run.stage = next
	run.busy, run.step, run.errMsg = true, StepContent, ""
	run.changedLocked(o.now())
	metrics.GenerationActiveRuns.Inc()
	return next, nil
}

func (o *Orchestrator) generate(ctx context.Context, run *Run, st *GeneratingStage) error {
	defer metrics.GenerationActiveRuns.Dec()

	var err error
	if o.opts.Concurrency > 1 && len(st.Segments) > 1 {
		err = o.generateParallel(ctx, run, st)
	} else {
		err = o.generateSequential(ctx, run, st)
	}
	if err != nil {
		var secErr *ai.SectionError
		msg := "Failed to generate content. Please try again."
		if errors.As(err, &secErr) {
			msg = fmt.Sprintf("Failed to generate section %d of %d. Please try again.", secErr.Index+1, len(st.Segments))
		}
		o.failGenerating(run, st, msg, err)
		return err
	}

	run.mu.Lock()
	content := strings.Join(st.Sections, "\n\n")
	meta := st.Params.metadata(st.EditedOutline, o.now())
	run.mu.Unlock()

	post, err := o.drafts.CreateAIDraft(ctx, st.Title, content, run.AuthorID, meta)
	metrics.GenerationDraftsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistence, err)
		o.failGenerating(run, st, "Failed to save the draft. Please try again.", err)
		return err
	}

	run.mu.Lock()
	run.postID = post.ID
	run.busy, run.step = false, StepNone
	run.changedLocked(o.now())
	run.mu.Unlock()
	o.logger.Info("draft created", zap.String("run", run.ID), zap.String("post", post.ID), zap.Int("sections", len(st.Segments)))
	return nil
}

func (o *Orchestrator) generateSequential(ctx context.Context, run *Run, st *GeneratingStage) error {
	total := len(st.Segments)
	for i, segment := range st.Segments {
		o.setProgress(run, st, i*100/total)
		html, err := o.gen.Section(ctx, st.Params.sectionRequest(st.Title, segment, i, total))
		if err != nil {
			return err
		}
		run.mu.Lock()
		st.Sections = append(st.Sections, html)
		run.changedLocked(o.now())
		run.mu.Unlock()
	}
	o.setProgress(run, st, 100)
	return nil
}

// generateParallel runs up to Concurrency section calls at once. Finished
// sections are appended only once every earlier one is in, so Sections stays
// an ordered prefix of the outline.
func (o *Orchestrator) generateParallel(ctx context.Context, run *Run, st *GeneratingStage) error {
	total := len(st.Segments)
	results := make([]string, total)
	ready := make([]bool, total)
	var mu sync.Mutex
	completed := 0
	o.reportProgress(run.ID, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)
	for i, segment := range st.Segments {
		g.Go(func() error {
			html, err := o.gen.Section(gctx, st.Params.sectionRequest(st.Title, segment, i, total))
			if err != nil {
				return err
			}

			mu.Lock()
			results[i], ready[i] = html, true
			completed++
			progress := completed * 100 / total
			run.mu.Lock()
			for n := len(st.Sections); n < total && ready[n]; n++ {
				st.Sections = append(st.Sections, results[n])
			}
			run.changedLocked(o.now())
			run.mu.Unlock()
			o.setProgress(run, st, progress)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) setProgress(run *Run, st *GeneratingStage, progress int) {
	run.mu.Lock()
	if progress < st.Progress {
		run.mu.Unlock()
		return
	}
	st.Progress = progress
	run.changedLocked(o.now())
	run.mu.Unlock()
	o.reportProgress(run.ID, progress)
}

func (o *Orchestrator) reportProgress(runID string, progress int) {
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(runID, progress)
	}
}

func (o *Orchestrator) fail(run *Run, msg string, err error) {
	o.logger.Warn("generation step failed", zap.String("run", run.ID), zap.Error(err))
	run.mu.Lock()
	run.busy, run.step, run.errMsg = false, StepNone, msg
	run.changedLocked(o.now())
	run.mu.Unlock()
}

func (o *Orchestrator) failGenerating(run *Run, st *GeneratingStage, msg string, err error) {
	run.mu.Lock()
	st.Failed = true
	run.mu.Unlock()
	o.fail(run, msg, err)
}
