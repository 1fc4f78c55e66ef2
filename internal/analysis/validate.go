package analysis

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON = errors.New("analysis reply is not valid JSON")
	errNotObject   = errors.New("analysis reply is not a JSON object")
)

// Validate parses an untrusted model reply into a Result. Individual fields
// are normalized rather than rejected; only an unparseable reply is an error.
func Validate(raw string) (Result, error) {
	if !gjson.Valid(raw) {
		return Default(), errInvalidJSON
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return Default(), errNotObject
	}

	return Result{
		AnniversaryType: anniversaryType(root.Get("anniversary_type")),
		SeasonalTags:    seasonalTags(root.Get("seasonal_tags")),
		ProactiveScore:  proactiveScore(root.Get("proactive_score")),
		Reasoning:       reasoning(root.Get("reasoning")),
	}, nil
}

func anniversaryType(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	label := strings.ToLower(strings.TrimSpace(v.Str))
	if label == "null" || !slices.Contains(AnniversaryTypes, label) {
		return nil
	}
	return &label
}

func seasonalTags(v gjson.Result) []string {
	tags := []string{}
	if !v.IsArray() {
		return tags
	}
	for _, item := range v.Array() {
		if len(tags) == MaxSeasonalTags {
			break
		}
		if item.Type == gjson.String {
			tags = append(tags, item.Str)
		}
	}
	return tags
}

func proactiveScore(v gjson.Result) float64 {
	var score float64
	switch v.Type {
	case gjson.Number:
		score = v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		score = f
	case gjson.True:
		score = 1
	default:
		return 0
	}
	if math.IsNaN(score) {
		return 0
	}
	return ClampScore(score)
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, score))
}

func reasoning(v gjson.Result) string {
	if v.Type != gjson.String {
		return NoReasoning
	}
	return v.Str
}
