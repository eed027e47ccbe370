package generator

import (
	"testing"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParametersUsesSettingsDefaults(t *testing.T) {
	defaults := settings.Defaults()
	defaults.DefaultTone = models.ToneTechnical
	defaults.DefaultArticleSize = models.SizeLarge
	defaults.DefaultAudience = "RevOps leads"
	defaults.DefaultCountries = []string{"US", "GB"}
	defaults.RequiresResearch = true

	p := NewParameters(ParameterInput{Topic: "Data enrichment", PrimaryKeyword: "data enrichment"}, defaults)
	assert.Equal(t, models.ToneTechnical, p.Tone)
	assert.Equal(t, models.SizeLarge, p.ArticleSize)
	assert.Equal(t, "RevOps leads", p.TargetAudience)
	assert.Equal(t, []string{"US", "GB"}, p.TargetCountries)
	assert.True(t, p.RequiresResearch)
	require.NoError(t, p.Validate())

	p.TargetCountries[0] = "FR"
	assert.Equal(t, "US", defaults.DefaultCountries[0])
}

func TestNewParametersOverrides(t *testing.T) {
	tone, research, audience := models.ToneCasual, false, "  Founders "
	p := NewParameters(ParameterInput{
		Topic:             " Cold email ",
		PrimaryKeyword:    "cold email",
		SecondaryKeywords: " outreach, ,bounce rate ,",
		Tone:              &tone,
		RequiresResearch:  &research,
		TargetAudience:    &audience,
	}, settings.ContentSettings{
		DefaultTone:         models.ToneTechnical,
		DefaultWritingStyle: models.StyleAnalytical,
		DefaultComplexity:   models.ComplexityExpert,
		DefaultArticleSize:  models.SizeSmall,
		RequiresResearch:    true,
	})
	assert.Equal(t, "Cold email", p.Topic)
	assert.Equal(t, "outreach, bounce rate", p.SecondaryKeywords)
	assert.Equal(t, models.ToneCasual, p.Tone)
	assert.Equal(t, models.StyleAnalytical, p.WritingStyle)
	assert.False(t, p.RequiresResearch)
	assert.Equal(t, "Founders", p.TargetAudience)
}

func TestValidate(t *testing.T) {
	base := NewParameters(ParameterInput{Topic: "t", PrimaryKeyword: "k"}, settings.Defaults())
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*ArticleParameters)
		want   string
	}{
		{"missing topic", func(p *ArticleParameters) { p.Topic = "" }, "topic is required"},
		{"missing keyword", func(p *ArticleParameters) { p.PrimaryKeyword = "" }, "primaryKeyword is required"},
		{"bad size", func(p *ArticleParameters) { p.ArticleSize = "huge" }, "articleSize"},
		{"bad tone", func(p *ArticleParameters) { p.Tone = "sarcastic" }, "tone"},
		{"bad style", func(p *ArticleParameters) { p.WritingStyle = "poetic" }, "writingStyle"},
		{"bad complexity", func(p *ArticleParameters) { p.ContentComplexity = "phd" }, "contentComplexity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidParameters)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTiers(t *testing.T) {
	tests := []struct {
		size                   models.ArticleSize
		minW, maxW, minH, maxH int
	}{
		{models.SizeSmall, 800, 1200, 4, 6},
		{models.SizeMedium, 1500, 2000, 6, 8},
		{models.SizeLarge, 2500, 3000, 8, 10},
	}
	for _, tt := range tests {
		tier, ok := Tier(tt.size)
		require.True(t, ok, tt.size)
		assert.Equal(t, tt.minW, tier.Words.Min)
		assert.Equal(t, tt.maxW, tier.Words.Max)
		assert.Equal(t, tt.minH, tier.Headings.Min)
		assert.Equal(t, tt.maxH, tier.Headings.Max)
	}
	_, ok := Tier("huge")
	assert.False(t, ok)
}

func TestSplitOutline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", " \n\n\t\n", []string{}},
		{"single", "## A\n### a1", []string{"## A\n### a1"}},
		{"blank lines with spaces", "## A\n### a1\n  \n## B\r\n\r\n\r\n## C", []string{"## A\n### a1", "## B", "## C"}},
		{"trims segments", "\n\n  ## A  \n\n\n## B\n", []string{"## A", "## B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOutline(tt.in))
		})
	}
}
