package ai

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks a request refused before any completion call.
var ErrInvalidRequest = errors.New("invalid generation request")

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Min, r.Max) }

func (r Range) valid() bool { return r.Min > 0 && r.Max >= r.Min }

// SizeSpec bounds an article's length and its number of main sections.
type SizeSpec struct {
	Words    Range `json:"words"`
	Headings Range `json:"headings"`
}

// TitleRequest is the body of POST /ai/generate/title.
type TitleRequest struct {
	Topic          string `json:"topic"          binding:"required"`
	PrimaryKeyword string `json:"primaryKeyword" binding:"required"`
	Tone           string `json:"tone"`
}

// OutlineRequest is the body of POST /ai/generate/outline.
type OutlineRequest struct {
	Title              string   `json:"title"              binding:"required"`
	PrimaryKeyword     string   `json:"primaryKeyword"     binding:"required"`
	SecondaryKeywords  string   `json:"secondaryKeywords"`
	Size               SizeSpec `json:"size"`
	Tone               string   `json:"tone"`
	WritingStyle       string   `json:"writingStyle"`
	ContentComplexity  string   `json:"contentComplexity"`
	TargetAudience     string   `json:"targetAudience"`
	CustomInstructions string   `json:"customInstructions"`
}

func (r OutlineRequest) Validate() error {
	if !r.Size.Words.valid() || !r.Size.Headings.valid() {
		return fmt.Errorf("%w: size must be %s words / %s headings with min > 0 and max >= min",
			ErrInvalidRequest, r.Size.Words, r.Size.Headings)
	}
	return nil
}

// SectionRequest is the body of POST /ai/generate/section. SectionIndex is zero based.
type SectionRequest struct {
	Title              string `json:"title"              binding:"required"`
	Section            string `json:"section"            binding:"required"`
	SectionIndex       int    `json:"sectionIndex"`
	TotalSections      int    `json:"totalSections"      binding:"required,min=1"`
	PrimaryKeyword     string `json:"primaryKeyword"`
	SecondaryKeywords  string `json:"secondaryKeywords"`
	Tone               string `json:"tone"`
	WritingStyle       string `json:"writingStyle"`
	ContentComplexity  string `json:"contentComplexity"`
	TargetAudience     string `json:"targetAudience"`
	RequiresResearch   bool   `json:"requiresResearch"`
	CustomInstructions string `json:"customInstructions"`
}

func (r SectionRequest) Validate() error {
	if r.TotalSections < 1 || r.SectionIndex < 0 || r.SectionIndex >= r.TotalSections {
		return fmt.Errorf("%w: sectionIndex %d out of range [0,%d)", ErrInvalidRequest, r.SectionIndex, r.TotalSections)
	}
	return nil
}

type titleResponse struct {
	Title string `json:"title"`
}

type outlineResponse struct {
	Outline string `json:"outline"`
}

type sectionResponse struct {
	Content string `json:"content"`
}

type providerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Model   string `json:"model"`
	Enabled bool   `json:"enabled"`
	Active  bool   `json:"active"`
}
