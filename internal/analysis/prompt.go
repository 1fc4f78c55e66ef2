package analysis

import (
	"fmt"
	"strings"
)

const replyTemplate = `

ANNIVERSARY TYPES (select ONE or null): "work", "graduation", "birthday", "wedding", "anniversary", "retirement", "death".
SEASONAL TAGS (only if EXPLICITLY mentioned): christmas, halloween, thanksgiving, birthday, vacation, summer, winter, etc.
PROACTIVE SCORE (0-5): 5 for major life events, 3 for holidays, 1 for casual events, 0 for mundane.

CRITICAL: Respond with ONLY a JSON object in this exact format:
{
  "anniversary_type": "work",
  "seasonal_tags": ["competition", "sports"],
  "proactive_score": 4,
  "reasoning": "Brief explanation of your analysis."
}`

// BuildPrompt renders the analysis instruction for a single memory.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a memory analysis AI. Analyze the given memory for proactive trigger potential based on Anniversary type, Seasonal relevance, and a Proactive score (0-5).")
	b.WriteString("\n\nMEMORY TO ANALYZE:")
	fmt.Fprintf(&b, "\nTitle: \"%s\"", req.Title)
	fmt.Fprintf(&b, "\nDescription: \"%s\"", req.Description)
	fmt.Fprintf(&b, "\nType: %s", req.Type)
	if req.Date != "" {
		fmt.Fprintf(&b, "\nDate: %s", req.Date)
	}
	if req.Location != "" {
		fmt.Fprintf(&b, "\nLocation: %s", req.Location)
	}
	if len(req.PeoplePresent) > 0 {
		fmt.Fprintf(&b, "\nPeople Present: %s", strings.Join(req.PeoplePresent, ", "))
	}
	b.WriteString(replyTemplate)
	return b.String()
}
