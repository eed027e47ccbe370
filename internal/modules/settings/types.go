package settings

import (
	"fmt"
	"strings"

	"github.com/leadforge/site/internal/models"
)

// OptionKey is the fixed options-table row holding ContentSettings.
const OptionKey = "content_settings"

// ContentSettings are the site-wide defaults used to seed article generation.
type ContentSettings struct {
	DefaultTone         models.Tone              `json:"defaultTone"`
	DefaultWritingStyle models.WritingStyle      `json:"defaultWritingStyle"`
	DefaultComplexity   models.ContentComplexity `json:"defaultComplexity"`
	DefaultArticleSize  models.ArticleSize       `json:"defaultArticleSize"`
	DefaultAudience     string                   `json:"defaultAudience"`
	DefaultCountries    []string                 `json:"defaultCountries"`
	RequiresResearch    bool                     `json:"requiresResearch"`
}

// Defaults is what a fresh install starts with.
func Defaults() ContentSettings {
	return ContentSettings{
		DefaultTone:         models.ToneProfessional,
		DefaultWritingStyle: models.StyleInformative,
		DefaultComplexity:   models.ComplexityIntermediate,
		DefaultArticleSize:  models.SizeMedium,
		DefaultCountries:    []string{},
	}
}

func (s ContentSettings) Validate() error {
	if !s.DefaultTone.Valid() {
		return fmt.Errorf("invalid defaultTone %q", s.DefaultTone)
	}
	if !s.DefaultWritingStyle.Valid() {
		return fmt.Errorf("invalid defaultWritingStyle %q", s.DefaultWritingStyle)
	}
	if !s.DefaultComplexity.Valid() {
		return fmt.Errorf("invalid defaultComplexity %q", s.DefaultComplexity)
	}
	if !s.DefaultArticleSize.Valid() {
		return fmt.Errorf("invalid defaultArticleSize %q", s.DefaultArticleSize)
	}
	return nil
}

// Patch carries a partial update; nil fields keep their current value.
type Patch struct {
	DefaultTone         *models.Tone              `json:"defaultTone"`
	DefaultWritingStyle *models.WritingStyle      `json:"defaultWritingStyle"`
	DefaultComplexity   *models.ContentComplexity `json:"defaultComplexity"`
	DefaultArticleSize  *models.ArticleSize       `json:"defaultArticleSize"`
	DefaultAudience     *string                   `json:"defaultAudience"`
	DefaultCountries    *[]string                 `json:"defaultCountries"`
	RequiresResearch    *bool                     `json:"requiresResearch"`
}

func (p Patch) apply(s ContentSettings) ContentSettings {
	if p.DefaultTone != nil {
		s.DefaultTone = *p.DefaultTone
	}
	if p.DefaultWritingStyle != nil {
		s.DefaultWritingStyle = *p.DefaultWritingStyle
	}
	if p.DefaultComplexity != nil {
		s.DefaultComplexity = *p.DefaultComplexity
	}
	if p.DefaultArticleSize != nil {
		s.DefaultArticleSize = *p.DefaultArticleSize
	}
	if p.DefaultAudience != nil {
		s.DefaultAudience = strings.TrimSpace(*p.DefaultAudience)
	}
	if p.DefaultCountries != nil {
		s.DefaultCountries = normalizeCountries(*p.DefaultCountries)
	}
	if p.RequiresResearch != nil {
		s.RequiresResearch = *p.RequiresResearch
	}
	return s
}

// normalizeCountries upper-cases, trims and dedupes country codes.
func normalizeCountries(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
