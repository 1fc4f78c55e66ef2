package validate

import (
	"fmt"
	"strings"

	"github.com/GharsallahDev/memory-palace/internal/analysis"
	"github.com/GharsallahDev/memory-palace/internal/director"
	"github.com/GharsallahDev/memory-palace/internal/face"
)

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// -------- Request specific helpers ----------

// Chat validates a director turn. Every supplied memory needs an id and a type.
func Chat(req director.Request) error {
	if err := NonEmpty("query", req.Query); err != nil {
		return err
	}
	for i, m := range req.ContextMemories {
		if err := NonEmpty(fmt.Sprintf("context_memories[%d].memory_id", i), m.MemoryID); err != nil {
			return err
		}
		if err := NonEmpty(fmt.Sprintf("context_memories[%d].type", i), m.Type); err != nil {
			return err
		}
	}
	if p := req.PatientContext; p != nil {
		if err := NonEmpty("patient_context.name", p.Name); err != nil {
			return err
		}
		if p.Age != nil && *p.Age < 0 {
			return fmt.Errorf("patient_context.age must not be negative")
		}
	}
	return nil
}

func AnalyzeMemory(req analysis.Request) error {
	if err := NonEmpty("title", req.Title); err != nil {
		return err
	}
	return NonEmpty("type", req.Type)
}

func RecognizePeople(probe string, known []face.KnownFace) error {
	if err := NonEmpty("photo_to_check_base64", probe); err != nil {
		return err
	}
	if known == nil {
		return fmt.Errorf("known_faces is required")
	}
	return nil
}
