package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/ai"
	"github.com/leadforge/site/internal/modules/settings"
)

var ErrInvalidParameters = errors.New("invalid article parameters")

var sizeTiers = map[models.ArticleSize]ai.SizeSpec{
	models.SizeSmall:  {Words: ai.Range{Min: 800, Max: 1200}, Headings: ai.Range{Min: 4, Max: 6}},
	models.SizeMedium: {Words: ai.Range{Min: 1500, Max: 2000}, Headings: ai.Range{Min: 6, Max: 8}},
	models.SizeLarge:  {Words: ai.Range{Min: 2500, Max: 3000}, Headings: ai.Range{Min: 8, Max: 10}},
}

// Tier returns the word and heading ranges bound to size.
func Tier(size models.ArticleSize) (ai.SizeSpec, bool) {
	t, ok := sizeTiers[size]
	return t, ok
}

// ArticleParameters are the inputs of one generation run. A run copies them
// on submit and never changes them afterwards.
type ArticleParameters struct {
	Topic              string                   `json:"topic"`
	PrimaryKeyword     string                   `json:"primaryKeyword"`
	SecondaryKeywords  string                   `json:"secondaryKeywords"`
	ArticleSize        models.ArticleSize       `json:"articleSize"`
	Tone               models.Tone              `json:"tone"`
	WritingStyle       models.WritingStyle      `json:"writingStyle"`
	ContentComplexity  models.ContentComplexity `json:"contentComplexity"`
	TargetAudience     string                   `json:"targetAudience"`
	TargetCountries    []string                 `json:"targetCountries"`
	RequiresResearch   bool                     `json:"requiresResearch"`
	CustomInstructions string                   `json:"customInstructions"`
}

func (p ArticleParameters) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Topic) == "" {
		problems = append(problems, "topic is required")
	}
	if strings.TrimSpace(p.PrimaryKeyword) == "" {
		problems = append(problems, "primaryKeyword is required")
	}
	if !p.ArticleSize.Valid() {
		problems = append(problems, fmt.Sprintf("articleSize %q is not one of small, medium, large", p.ArticleSize))
	}
	if !p.Tone.Valid() {
		problems = append(problems, fmt.Sprintf("tone %q is not supported", p.Tone))
	}
	if !p.WritingStyle.Valid() {
		problems = append(problems, fmt.Sprintf("writingStyle %q is not supported", p.WritingStyle))
	}
	if !p.ContentComplexity.Valid() {
		problems = append(problems, fmt.Sprintf("contentComplexity %q is not supported", p.ContentComplexity))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(problems, "; "))
	}
	return nil
}

func (p ArticleParameters) clone() ArticleParameters {
	p.TargetCountries = append([]string{}, p.TargetCountries...)
	return p
}

// ParameterInput is user input. Nil optional fields fall back to settings.
type ParameterInput struct {
	Topic              string                    `json:"topic"`
	PrimaryKeyword     string                    `json:"primaryKeyword"`
	SecondaryKeywords  string                    `json:"secondaryKeywords"`
	ArticleSize        *models.ArticleSize       `json:"articleSize"`
	Tone               *models.Tone              `json:"tone"`
	WritingStyle       *models.WritingStyle      `json:"writingStyle"`
	ContentComplexity  *models.ContentComplexity `json:"contentComplexity"`
	TargetAudience     *string                   `json:"targetAudience"`
	TargetCountries    []string                  `json:"targetCountries"`
	RequiresResearch   *bool                     `json:"requiresResearch"`
	CustomInstructions string                    `json:"customInstructions"`
}

// NewParameters merges in over defaults. The result is not validated.
func NewParameters(in ParameterInput, defaults settings.ContentSettings) ArticleParameters {
	p := ArticleParameters{
		Topic:              strings.TrimSpace(in.Topic),
		PrimaryKeyword:     strings.TrimSpace(in.PrimaryKeyword),
		SecondaryKeywords:  normalizeKeywords(in.SecondaryKeywords),
		ArticleSize:        defaults.DefaultArticleSize,
		Tone:               defaults.DefaultTone,
		WritingStyle:       defaults.DefaultWritingStyle,
		ContentComplexity:  defaults.DefaultComplexity,
		TargetAudience:     defaults.DefaultAudience,
		TargetCountries:    append([]string{}, defaults.DefaultCountries...),
		RequiresResearch:   defaults.RequiresResearch,
		CustomInstructions: strings.TrimSpace(in.CustomInstructions),
	}
	if in.ArticleSize != nil {
		p.ArticleSize = *in.ArticleSize
	}
	if in.Tone != nil {
		p.Tone = *in.Tone
	}
	if in.WritingStyle != nil {
		p.WritingStyle = *in.WritingStyle
	}
	if in.ContentComplexity != nil {
		p.ContentComplexity = *in.ContentComplexity
	}
	if in.TargetAudience != nil {
		p.TargetAudience = strings.TrimSpace(*in.TargetAudience)
	}
	if in.TargetCountries != nil {
		p.TargetCountries = append([]string{}, in.TargetCountries...)
	}
	if in.RequiresResearch != nil {
		p.RequiresResearch = *in.RequiresResearch
	}
	return p
}

// normalizeKeywords trims each comma-separated keyword and drops empties.
func normalizeKeywords(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func (p ArticleParameters) titleRequest() ai.TitleRequest {
	return ai.TitleRequest{
		Topic:          p.Topic,
		PrimaryKeyword: p.PrimaryKeyword,
		Tone:           string(p.Tone),
	}
}

func (p ArticleParameters) outlineRequest(title string) ai.OutlineRequest {
	size, _ := Tier(p.ArticleSize)
	return ai.OutlineRequest{
		Title:              title,
		PrimaryKeyword:     p.PrimaryKeyword,
		SecondaryKeywords:  p.SecondaryKeywords,
		Size:               size,
		Tone:               string(p.Tone),
		WritingStyle:       string(p.WritingStyle),
		ContentComplexity:  string(p.ContentComplexity),
		TargetAudience:     p.TargetAudience,
		CustomInstructions: p.CustomInstructions,
	}
}

func (p ArticleParameters) sectionRequest(title, segment string, index, total int) ai.SectionRequest {
	return ai.SectionRequest{
		Title:              title,
		Section:            segment,
		SectionIndex:       index,
		TotalSections:      total,
		PrimaryKeyword:     p.PrimaryKeyword,
		SecondaryKeywords:  p.SecondaryKeywords,
		Tone:               string(p.Tone),
		WritingStyle:       string(p.WritingStyle),
		ContentComplexity:  string(p.ContentComplexity),
		TargetAudience:     p.TargetAudience,
		RequiresResearch:   p.RequiresResearch,
		CustomInstructions: p.CustomInstructions,
	}
}

// metadata snapshots the parameters and outline for the persisted draft.
func (p ArticleParameters) metadata(outline string, at time.Time) models.GenerationMetadata {
	return models.GenerationMetadata{
		Topic:              p.Topic,
		PrimaryKeyword:     p.PrimaryKeyword,
		SecondaryKeywords:  p.SecondaryKeywords,
		Tone:               string(p.Tone),
		WritingStyle:       string(p.WritingStyle),
		ContentComplexity:  string(p.ContentComplexity),
		ArticleSize:        string(p.ArticleSize),
		TargetAudience:     p.TargetAudience,
		TargetCountries:    append([]string{}, p.TargetCountries...),
		RequiresResearch:   p.RequiresResearch,
		CustomInstructions: p.CustomInstructions,
		Outline:            outline,
		GeneratedAt:        at,
	}
}
