package analysis

// AnniversaryTypes is the fixed label set a memory can be classified into.
var AnniversaryTypes = []string{"work", "graduation", "birthday", "wedding", "anniversary", "retirement", "death"}

const (
	MaxSeasonalTags = 3
	MinScore        = 0.0
	MaxScore        = 5.0

	NoReasoning      = "No reasoning provided."
	DefaultReasoning = "Analysis failed, using default values."
)

// Request describes the memory to analyze.
type Request struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	Date          string   `json:"date,omitempty"`
	Location      string   `json:"location,omitempty"`
	PeoplePresent []string `json:"people_present,omitempty"`
}

// Result is the validated analysis of a memory.
type Result struct {
	AnniversaryType *string  `json:"anniversary_type"`
	SeasonalTags    []string `json:"seasonal_tags"`
	ProactiveScore  float64  `json:"proactive_score"`
	Reasoning       string   `json:"reasoning"`
}

// Default returns the result used whenever analysis cannot be completed.
func Default() Result {
	return Result{
		AnniversaryType: nil,
		SeasonalTags:    []string{},
		ProactiveScore:  0,
		Reasoning:       DefaultReasoning,
	}
}

// reply is the shape requested from the model. It only drives the optional
// JSON schema sent as output format; replies are always parsed leniently.
type reply struct {
	AnniversaryType *string  `json:"anniversary_type" jsonschema:"enum=work,enum=graduation,enum=birthday,enum=wedding,enum=anniversary,enum=retirement,enum=death"`
	SeasonalTags    []string `json:"seasonal_tags" jsonschema:"maxItems=3"`
	ProactiveScore  float64  `json:"proactive_score" jsonschema:"minimum=0,maximum=5"`
	Reasoning       string   `json:"reasoning"`
}
