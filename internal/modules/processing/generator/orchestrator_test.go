package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/ai"
	"github.com/leadforge/site/internal/modules/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sectionNumber = regexp.MustCompile(`Write section (\d+) of (\d+)`)

// fakeLLM answers by prompt kind: a lone user message is a title request,
// a prompt naming a section number is a section request, anything else is
// an outline request.
type fakeLLM struct {
	mu          sync.Mutex
	title       string
	outline     string
	outlineErr  error
	failSection int
	delay       func(n, total int) time.Duration

	titleCalls   int
	outlineCalls int
	sections     []int
}

func (f *fakeLLM) Complete(ctx context.Context, messages []ai.Message, _ float64) (string, error) {
	if len(messages) == 1 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.titleCalls++
		return f.title, nil
	}
	m := sectionNumber.FindStringSubmatch(messages[len(messages)-1].Content)
	if m == nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.outlineCalls++
		return f.outline, f.outlineErr
	}
	n, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	if f.delay != nil {
		select {
		case <-time.After(f.delay(n, total)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, n)
	if n == f.failSection {
		return "", errors.New("upstream returned 503")
	}
	return fmt.Sprintf("<h2>Part %d</h2>", n), nil
}

func (f *fakeLLM) sectionCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sections)
}

type fakeDrafts struct {
	mu    sync.Mutex
	err   error
	calls []draftCall
}

type draftCall struct {
	title, content, author string
	meta                   models.GenerationMetadata
}

func (d *fakeDrafts) CreateAIDraft(_ context.Context, title, content, authorID string, meta models.GenerationMetadata) (*models.PostModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, draftCall{title, content, authorID, meta})
	if d.err != nil {
		return nil, d.err
	}
	return &models.PostModel{
		Base:          models.Base{ID: "post-1"},
		Title:         title,
		Content:       content,
		Status:        models.PostDraft,
		AuthorID:      authorID,
		IsAIGenerated: true,
	}, nil
}

const fiveSectionOutline = `## Why Deliverability Matters
### Revenue impact
### Sender reputation

## Authentication Basics
### SPF
### DKIM

## List Hygiene
### Bounces
### Verification

## Content and Engagement
### Subject lines
### Spam triggers

## Monitoring
### Postmaster tools
### Alerts`

type harness struct {
	llm      *fakeLLM
	drafts   *fakeDrafts
	orch     *Orchestrator
	run      *Run
	mu       sync.Mutex
	progress []int
}

func newHarness(t *testing.T, llm *fakeLLM, concurrency int) *harness {
	t.Helper()
	h := &harness{llm: llm, drafts: &fakeDrafts{}}
	h.orch = NewOrchestrator(ai.NewGenerator(llm, nil), h.drafts, Options{
		Concurrency: concurrency,
		OnProgress: func(_ string, p int) {
			h.mu.Lock()
			h.progress = append(h.progress, p)
			h.mu.Unlock()
		},
	}, nil)
	h.run = NewRegistry().Create("author-1", settings.Defaults())
	return h
}

func smallProfessional() ParameterInput {
	size, tone := models.SizeSmall, models.ToneProfessional
	return ParameterInput{
		Topic:          "Email Deliverability",
		PrimaryKeyword: "email deliverability",
		ArticleSize:    &size,
		Tone:           &tone,
	}
}

func TestEndToEndSmallArticle(t *testing.T) {
	llm := &fakeLLM{title: "Why email deliverability decides your B2B pipeline", outline: fiveSectionOutline}
	h := newHarness(t, llm, 1)
	ctx := context.Background()

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	snap := h.run.Snapshot()
	assert.Equal(t, StageOutline, snap.Stage)
	assert.LessOrEqual(t, len(snap.Title), 70)
	assert.Contains(t, strings.ToLower(snap.Title), "email deliverability")
	headings := regexp.MustCompile(`(?m)^## `).FindAllString(snap.Outline, -1)
	assert.GreaterOrEqual(t, len(headings), 4)
	assert.LessOrEqual(t, len(headings), 6)
	assert.Equal(t, snap.Outline, snap.EditedOutline)

	require.NoError(t, h.orch.Confirm(ctx, h.run))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, llm.sections)

	require.Len(t, h.drafts.calls, 1)
	call := h.drafts.calls[0]
	assert.Equal(t, "author-1", call.author)
	assert.Equal(t, "<h2>Part 1</h2>\n\n<h2>Part 2</h2>\n\n<h2>Part 3</h2>\n\n<h2>Part 4</h2>\n\n<h2>Part 5</h2>", call.content)
	assert.Equal(t, "Email Deliverability", call.meta.Topic)
	assert.Equal(t, "small", call.meta.ArticleSize)
	assert.Equal(t, "professional", call.meta.Tone)
	assert.Equal(t, fiveSectionOutline, call.meta.Outline)
	assert.False(t, call.meta.GeneratedAt.IsZero())

	snap = h.run.Snapshot()
	assert.Equal(t, "post-1", snap.PostID)
	assert.False(t, snap.Busy)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100}, h.progress)
}

func TestOutlineFailureStaysInParameters(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability for revenue teams", outlineErr: errors.New("HTTP 500")}
	h := newHarness(t, llm, 1)

	err := h.orch.Submit(context.Background(), h.run, smallProfessional())
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrOutlineGeneration)

	snap := h.run.Snapshot()
	assert.Equal(t, StageParameters, snap.Stage)
	assert.Equal(t, "Email deliverability for revenue teams", snap.Title)
	assert.Equal(t, "Email Deliverability", snap.Params.Topic)
	assert.NotEmpty(t, snap.Error)
	assert.False(t, snap.Busy)
	assert.Empty(t, h.drafts.calls)

	// Resubmitting starts the stage over.
	llm.outlineErr = nil
	llm.outline = fiveSectionOutline
	require.NoError(t, h.orch.Submit(context.Background(), h.run, smallProfessional()))
	assert.Equal(t, StageOutline, h.run.Snapshot().Stage)
	assert.Equal(t, 2, llm.titleCalls)
}

func TestEditedOutlineDrivesSectionCount(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: fiveSectionOutline}
	h := newHarness(t, llm, 1)
	ctx := context.Background()

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	edited := "## Why It Matters\n### Revenue\n\n## Fixes\n### SPF and DKIM\n\n## Monitoring\n### Alerts"
	require.NoError(t, h.orch.EditOutline(h.run, edited))
	require.NoError(t, h.orch.Confirm(ctx, h.run))

	assert.Equal(t, 3, llm.sectionCalls())
	require.Len(t, h.drafts.calls, 1)
	assert.Equal(t, edited, h.drafts.calls[0].meta.Outline)
	assert.Equal(t, fiveSectionOutline, h.run.Snapshot().Outline)
}

func TestSectionFailureHaltsAndRetryStartsOver(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: fiveSectionOutline, failSection: 3}
	h := newHarness(t, llm, 1)
	ctx := context.Background()

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	err := h.orch.Confirm(ctx, h.run)
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrSectionGeneration)

	snap := h.run.Snapshot()
	assert.Equal(t, StageGenerating, snap.Stage)
	assert.Len(t, snap.Sections, 2)
	assert.Equal(t, "Failed to generate section 3 of 5. Please try again.", snap.Error)
	assert.Equal(t, 40, snap.Progress)
	assert.Empty(t, h.drafts.calls)
	st, ok := h.run.Stage().(*GeneratingStage)
	require.True(t, ok)
	assert.True(t, st.Failed)

	llm.failSection = 0
	llm.sections = nil
	require.NoError(t, h.orch.Confirm(ctx, h.run))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, llm.sections)
	assert.Len(t, h.drafts.calls, 1)
}

func TestPersistenceFailure(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: "## One\n\n## Two"}
	h := newHarness(t, llm, 1)
	h.drafts.err = errors.New("connection refused")
	ctx := context.Background()

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	err := h.orch.Confirm(ctx, h.run)
	require.ErrorIs(t, err, ErrPersistence)

	snap := h.run.Snapshot()
	assert.Equal(t, StageGenerating, snap.Stage)
	assert.Equal(t, "Failed to save the draft. Please try again.", snap.Error)
	assert.Empty(t, snap.PostID)
	assert.Len(t, snap.Sections, 2)
}

func TestParallelSectionsKeepOutlineOrder(t *testing.T) {
	llm := &fakeLLM{
		title:   "Email deliverability guide",
		outline: fiveSectionOutline,
		// Later sections finish first.
		delay: func(n, total int) time.Duration { return time.Duration(total-n+1) * 10 * time.Millisecond },
	}
	h := newHarness(t, llm, 5)
	ctx := context.Background()

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	require.NoError(t, h.orch.Confirm(ctx, h.run))

	require.Len(t, h.drafts.calls, 1)
	assert.Equal(t, "<h2>Part 1</h2>\n\n<h2>Part 2</h2>\n\n<h2>Part 3</h2>\n\n<h2>Part 4</h2>\n\n<h2>Part 5</h2>", h.drafts.calls[0].content)

	require.NotEmpty(t, h.progress)
	for i := 1; i < len(h.progress); i++ {
		assert.GreaterOrEqual(t, h.progress[i], h.progress[i-1])
	}
	assert.Equal(t, 100, h.progress[len(h.progress)-1])
	for _, p := range h.progress[:len(h.progress)-1] {
		assert.Less(t, p, 100)
	}
}

func TestStageGuards(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: fiveSectionOutline}
	h := newHarness(t, llm, 1)
	ctx := context.Background()

	assert.ErrorIs(t, h.orch.Confirm(ctx, h.run), ErrWrongStage)
	assert.ErrorIs(t, h.orch.EditOutline(h.run, "## x"), ErrWrongStage)
	assert.ErrorIs(t, h.orch.Back(h.run), ErrWrongStage)

	require.NoError(t, h.orch.Submit(ctx, h.run, smallProfessional()))
	assert.ErrorIs(t, h.orch.Submit(ctx, h.run, smallProfessional()), ErrWrongStage)

	require.NoError(t, h.orch.EditOutline(h.run, "  \n\n  "))
	assert.ErrorIs(t, h.orch.Confirm(ctx, h.run), ErrEmptyOutline)
	assert.Equal(t, StageOutline, h.run.Snapshot().Stage)
}

func TestBackKeepsGeneratedText(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: fiveSectionOutline}
	h := newHarness(t, llm, 1)

	require.NoError(t, h.orch.Submit(context.Background(), h.run, smallProfessional()))
	require.NoError(t, h.orch.EditOutline(h.run, "## Only"))
	require.NoError(t, h.orch.Back(h.run))

	snap := h.run.Snapshot()
	assert.Equal(t, StageParameters, snap.Stage)
	assert.Equal(t, "Email deliverability guide", snap.Title)
	assert.Equal(t, fiveSectionOutline, snap.Outline)
	assert.Equal(t, "## Only", snap.EditedOutline)
	assert.Equal(t, "email deliverability", snap.Params.PrimaryKeyword)
}

func TestSubmitRejectsInvalidParameters(t *testing.T) {
	llm := &fakeLLM{}
	h := newHarness(t, llm, 1)

	err := h.orch.Submit(context.Background(), h.run, ParameterInput{Topic: "  "})
	require.ErrorIs(t, err, ErrInvalidParameters)
	assert.Zero(t, llm.titleCalls)

	snap := h.run.Snapshot()
	assert.Equal(t, StageParameters, snap.Stage)
	assert.Contains(t, snap.Error, "topic is required")
}

func TestWatchReceivesLatestSnapshot(t *testing.T) {
	llm := &fakeLLM{title: "Email deliverability guide", outline: "## One\n\n## Two"}
	h := newHarness(t, llm, 1)

	updates, cancel := h.run.Watch()
	defer cancel()
	first := <-updates
	assert.Equal(t, StageParameters, first.Stage)

	require.NoError(t, h.orch.Submit(context.Background(), h.run, smallProfessional()))
	latest := <-updates
	assert.Equal(t, StageOutline, latest.Stage)
	assert.False(t, latest.Busy)
}
