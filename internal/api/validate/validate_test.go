package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GharsallahDev/memory-palace/internal/analysis"
	"github.com/GharsallahDev/memory-palace/internal/director"
	"github.com/GharsallahDev/memory-palace/internal/face"
)

func TestChat(t *testing.T) {
	neg := -1
	cases := []struct {
		name    string
		req     director.Request
		wantErr string
	}{
		{"ok minimal", director.Request{Query: "Hi"}, ""},
		{"ok casual", director.Request{Query: "Hi", ConversationType: "casual"}, ""},
		{"missing query", director.Request{Query: "  "}, "query is required"},
		{"memory without id", director.Request{Query: "q", ContextMemories: []director.MemoryContext{{Type: "photo"}}}, "context_memories[0].memory_id is required"},
		{"memory without type", director.Request{Query: "q", ContextMemories: []director.MemoryContext{{MemoryID: "m1"}}}, "context_memories[0].type is required"},
		{"patient without name", director.Request{Query: "q", PatientContext: &director.PatientContext{}}, "patient_context.name is required"},
		{"negative age", director.Request{Query: "q", PatientContext: &director.PatientContext{Name: "Rose", Age: &neg}}, "must not be negative"},
		{"unknown mode is memory based", director.Request{Query: "q", ConversationType: "poetry"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Chat(tc.req)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestAnalyzeMemory(t *testing.T) {
	assert.NoError(t, AnalyzeMemory(analysis.Request{Title: "Wedding", Type: "photo"}))
	assert.ErrorContains(t, AnalyzeMemory(analysis.Request{Type: "photo"}), "title")
	assert.ErrorContains(t, AnalyzeMemory(analysis.Request{Title: "Wedding"}), "type")
}

func TestRecognizePeople(t *testing.T) {
	assert.NoError(t, RecognizePeople("abc", []face.KnownFace{}))
	assert.ErrorContains(t, RecognizePeople("", []face.KnownFace{}), "photo_to_check_base64")
	assert.ErrorContains(t, RecognizePeople("abc", nil), "known_faces")
}
