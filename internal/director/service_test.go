package director

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	showErr error
	reply   string
	callErr error
	calls   int
	prompt  string
}

func (f *fakeRuntime) Show(ctx context.Context, model string) error { return f.showErr }

func (f *fakeRuntime) CompleteJSON(ctx context.Context, model, prompt string, format json.RawMessage, temperature float64) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.callErr
}

func TestService_NarrativeReply(t *testing.T) {
	rt := &fakeRuntime{reply: `{"response_type":"narrative","message":"Hi"}`}
	s := NewService(context.Background(), rt, "gemma3n:e2b", 0.1, zerolog.Nop())
	require.True(t, s.IsReady())

	resp := s.Respond(context.Background(), Request{Query: "hello"})
	n, ok := resp.(Narrative)
	require.True(t, ok, "expected narrative, got %T", resp)
	assert.Equal(t, "Hi", n.Message)
	assert.Equal(t, 1, rt.calls)
	assert.Contains(t, rt.prompt, "User Query: 'hello'")
}

func TestService_CinematicReply(t *testing.T) {
	rt := &fakeRuntime{reply: `{"response_type":"cinematic_show","show_title":"Your Summer","scenes":[{"memory_id":"m1","narration":"Here you are."},{"memory_id":"m3","narration":"Look!"}]}`}
	s := NewService(context.Background(), rt, "m", 0.1, zerolog.Nop())

	resp := s.Respond(context.Background(), Request{Query: "summer", ContextMemories: sampleMemories()})
	show, ok := resp.(CinematicShow)
	require.True(t, ok, "expected cinematic show, got %T", resp)
	assert.Equal(t, "Your Summer", show.ShowTitle)
	require.Len(t, show.Scenes, 2)
	assert.Equal(t, Scene{MemoryID: "m3", Narration: "Look!"}, show.Scenes[1])
}

func TestService_FallbackOnBadOutput(t *testing.T) {
	replies := []string{
		`{"response_type": "narrative", "message": `,
		`not json at all`,
		`{"response_type":"poem","message":"roses"}`,
		`{"message":"no type"}`,
		`{"response_type":"narrative"}`,
		`{"response_type":"cinematic_show","scenes":[]}`,
		`{"response_type":"cinematic_show","show_title":"t","scenes":[{"memory_id":"m1"}]}`,
		`[1,2,3]`,
		`null`,
	}
	for _, reply := range replies {
		rt := &fakeRuntime{reply: reply}
		s := NewService(context.Background(), rt, "m", 0.1, zerolog.Nop())
		resp := s.Respond(context.Background(), Request{Query: "q"})
		assert.Equal(t, Narrative{Message: FallbackMessage}, resp, reply)
		assert.Equal(t, 1, rt.calls, "model must be called exactly once")
	}
}

func TestService_FallbackOnModelError(t *testing.T) {
	rt := &fakeRuntime{callErr: errors.New("connection refused")}
	s := NewService(context.Background(), rt, "m", 0.1, zerolog.Nop())
	resp := s.Respond(context.Background(), Request{Query: "q"})
	assert.Equal(t, Narrative{Message: FallbackMessage}, resp)
	assert.Equal(t, 1, rt.calls)
}

func TestService_NotReadyWhenModelMissing(t *testing.T) {
	rt := &fakeRuntime{showErr: errors.New("model not found")}
	s := NewService(context.Background(), rt, "m", 0.1, zerolog.Nop())
	assert.False(t, s.IsReady())
	assert.Equal(t, "chat_conversation", s.Name())

	resp := s.Respond(context.Background(), Request{Query: "q"})
	assert.Equal(t, Narrative{Message: NotReadyMessage}, resp)
	assert.Equal(t, 0, rt.calls)
}

func TestService_NilRuntime(t *testing.T) {
	s := NewService(context.Background(), nil, "m", 0.1, zerolog.Nop())
	assert.False(t, s.IsReady())
}

func TestResponse_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Narrative{Message: "Hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response_type":"narrative","message":"Hi"}`, string(b))

	b, err = json.Marshal(CinematicShow{ShowTitle: "T"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response_type":"cinematic_show","show_title":"T","scenes":[]}`, string(b))

	var resp Response = CinematicShow{ShowTitle: "T", Scenes: []Scene{{MemoryID: "a", Narration: "n"}}}
	b, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response_type":"cinematic_show","show_title":"T","scenes":[{"memory_id":"a","narration":"n"}]}`, string(b))
}
