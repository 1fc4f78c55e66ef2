package director

import (
	"encoding/json"
)

// Conversation modes.
const (
	ModeCasual      = "casual"
	ModeMemoryBased = "memory_based"
)

// Response type tags as they appear on the wire.
const (
	TypeNarrative     = "narrative"
	TypeCinematicShow = "cinematic_show"
)

// MemoryContext is one memory supplied with a chat request.
type MemoryContext struct {
	MemoryID    string `json:"memory_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// IsVisual reports whether the memory is a photo or a video.
func (m MemoryContext) IsVisual() bool {
	return m.Type == "photo" || m.Type == "video"
}

// PatientContext describes the person the director is speaking to.
type PatientContext struct {
	Name        string `json:"name"`
	Age         *int   `json:"age,omitempty"`
	Description string `json:"description,omitempty"`
}

// Request is the input of a director turn.
type Request struct {
	Query            string          `json:"query"`
	ContextMemories  []MemoryContext `json:"context_memories"`
	PatientContext   *PatientContext `json:"patient_context,omitempty"`
	ConversationType string          `json:"conversation_type,omitempty"`
}

// Mode returns the conversation mode, defaulting to memory_based.
func (r Request) Mode() string {
	if r.ConversationType == "" {
		return ModeMemoryBased
	}
	return r.ConversationType
}

// Response is either a Narrative or a CinematicShow.
type Response interface {
	ResponseType() string
	isResponse()
}

// Narrative is a single free-form message.
type Narrative struct {
	Message string
}

func (Narrative) ResponseType() string { return TypeNarrative }
func (Narrative) isResponse()          {}

func (n Narrative) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ResponseType string `json:"response_type"`
		Message      string `json:"message"`
	}{TypeNarrative, n.Message})
}

// Scene narrates a single memory inside a cinematic show.
type Scene struct {
	MemoryID  string `json:"memory_id"`
	Narration string `json:"narration"`
}

// CinematicShow is a titled, ordered list of scenes.
type CinematicShow struct {
	ShowTitle string
	Scenes    []Scene
}

func (CinematicShow) ResponseType() string { return TypeCinematicShow }
func (CinematicShow) isResponse()          {}

func (c CinematicShow) MarshalJSON() ([]byte, error) {
	scenes := c.Scenes
	if scenes == nil {
		scenes = []Scene{}
	}
	return json.Marshal(struct {
		ResponseType string  `json:"response_type"`
		ShowTitle    string  `json:"show_title"`
		Scenes       []Scene `json:"scenes"`
	}{TypeCinematicShow, c.ShowTitle, scenes})
}
