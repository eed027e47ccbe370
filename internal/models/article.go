package models

// ArticleSize selects a length tier for generated articles.
type ArticleSize string

const (
	SizeSmall  ArticleSize = "small"
	SizeMedium ArticleSize = "medium"
	SizeLarge  ArticleSize = "large"
)

func (s ArticleSize) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

type Tone string

const (
	ToneProfessional   Tone = "professional"
	ToneCasual         Tone = "casual"
	ToneFriendly       Tone = "friendly"
	ToneAuthoritative  Tone = "authoritative"
	ToneConversational Tone = "conversational"
	ToneTechnical      Tone = "technical"
	TonePersuasive     Tone = "persuasive"
	ToneInformative    Tone = "informative"
)

var Tones = []Tone{
	ToneProfessional, ToneCasual, ToneFriendly, ToneAuthoritative,
	ToneConversational, ToneTechnical, TonePersuasive, ToneInformative,
}

func (t Tone) Valid() bool { return contains(Tones, t) }

type WritingStyle string

const (
	StyleInformative WritingStyle = "informative"
	StyleNarrative   WritingStyle = "narrative"
	StylePersuasive  WritingStyle = "persuasive"
	StyleDescriptive WritingStyle = "descriptive"
	StyleExpository  WritingStyle = "expository"
	StyleAnalytical  WritingStyle = "analytical"
)

var WritingStyles = []WritingStyle{
	StyleInformative, StyleNarrative, StylePersuasive,
	StyleDescriptive, StyleExpository, StyleAnalytical,
}

func (s WritingStyle) Valid() bool { return contains(WritingStyles, s) }

type ContentComplexity string

const (
	ComplexityBeginner     ContentComplexity = "beginner"
	ComplexityIntermediate ContentComplexity = "intermediate"
	ComplexityAdvanced     ContentComplexity = "advanced"
	ComplexityExpert       ContentComplexity = "expert"
)

var Complexities = []ContentComplexity{
	ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced, ComplexityExpert,
}

func (c ContentComplexity) Valid() bool { return contains(Complexities, c) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
