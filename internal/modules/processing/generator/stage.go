package generator

// StageName identifies which step of the article workflow a run is in.
type StageName string

const (
	StageParameters StageName = "parameters"
	StageOutline    StageName = "outline"
	StageGenerating StageName = "generating"
)

// Step is the generator call in flight, if any. StepTitle covers the title
// and outline calls made on submit; StepContent covers section calls.
type Step string

const (
	StepNone    Step = ""
	StepTitle   Step = "title"
	StepContent Step = "content"
)

// Stage is one of *ParametersStage, *OutlineStage or *GeneratingStage.
type Stage interface {
	Name() StageName
	isStage()
}

// ParametersStage collects article inputs. Title and Outline hold output from
// an earlier submit until the next one overwrites them.
type ParametersStage struct {
	Params        ArticleParameters
	Title         string
	Outline       string
	EditedOutline string
}

// OutlineStage holds the generated outline and the user's working copy.
type OutlineStage struct {
	Params        ArticleParameters
	Title         string
	Outline       string
	EditedOutline string
}

// GeneratingStage produces one section per outline segment. Sections only
// ever grows, in segment order.
type GeneratingStage struct {
	Params        ArticleParameters
	Title         string
	Outline       string
	EditedOutline string
	Segments      []string
	Sections      []string
	Progress      int
	Failed        bool
}

func (*ParametersStage) Name() StageName { return StageParameters }
func (*OutlineStage) Name() StageName    { return StageOutline }
func (*GeneratingStage) Name() StageName { return StageGenerating }

func (*ParametersStage) isStage() {}
func (*OutlineStage) isStage()    {}
func (*GeneratingStage) isStage() {}
