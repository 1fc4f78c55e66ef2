package director

import (
	"fmt"
	"strings"
)

// PhotoRecognitionQuery is the fixed query sent when the user shows a known
// photo; it always forces a narrative reply.
const PhotoRecognitionQuery = "The user showed me a photo I recognize. Please describe the following memory to them in a warm, narrative style. Do not make it a cinematic show."

// BuildPrompt renders the instruction prompt for a director turn.
func BuildPrompt(req Request) string {
	mode := req.Mode()
	var b strings.Builder

	b.WriteString("You are an AI assistant for a system called 'The Memory Palace', speaking to an elderly user with memory loss. Your tone must be warm, gentle, patient, and reassuring.")

	b.WriteString("\n\n--- JSON OUTPUT STRUCTURE ---")
	b.WriteString("\nYour entire response MUST be a single, valid JSON object. Choose the appropriate format:")
	b.WriteString("\n1. NARRATIVE: " + `{"response_type": "narrative", "message": "Your response"}`)
	b.WriteString("\n2. CINEMATIC: " + `{"response_type": "cinematic_show", "show_title": "Title", "scenes": [{"memory_id": "id", "narration": "text"}]}`)

	visual := visualMemories(req.ContextMemories)

	if mode == ModeCasual {
		b.WriteString("\n\n--- CASUAL CONVERSATION MODE ---")
		b.WriteString("\nThe user is having a casual conversation with no specific memories provided.")
		b.WriteString("\nRespond warmly and naturally using NARRATIVE format.")
		b.WriteString("\nYou can ask how they're feeling, what they'd like to talk about, or just be a friendly companion.")
	} else {
		b.WriteString("\n\n--- MEMORY CONVERSATION MODE ---")
		b.WriteString("\nThe user is asking about memories. Relevant memories have been provided below.")
		if n := len(visual); n > 0 {
			fmt.Fprintf(&b, "\nSince %d visual memories (photos/videos) are available, use CINEMATIC format.", n)
			fmt.Fprintf(&b, "\nYou MUST create exactly %d scenes - one for each visual memory provided.", n)
			fmt.Fprintf(&b, "\nDO NOT skip any memories. Include ALL %d visual memories as separate scenes.", n)
		} else {
			b.WriteString("\nOnly text/voice memories are available, so use NARRATIVE format.")
			b.WriteString("\nWeave the memory information naturally into your response.")
		}
	}

	if req.Query == PhotoRecognitionQuery {
		b.WriteString("\n\n--- PHOTO RECOGNITION OVERRIDE ---")
		b.WriteString("\nThis is a specific photo the user showed. Use NARRATIVE format to describe this specific memory warmly.")
	}

	b.WriteString("\n\n--- IMPORTANT RULES ---")
	b.WriteString("\n- Base responses ONLY on the provided memory descriptions and Patient Status notes.")
	b.WriteString("\n- If a person's relationship is in parentheses (e.g., 'Kate (Daughter)'), use it in your narration, for example, by saying 'your daughter, Kate'.")
	b.WriteString("\n- CRITICAL: If any memory description refers to 'You', it means the patient. Treat 'You' as referring to the patient and respond accordingly.")
	b.WriteString("\n- For cinematic shows: memory_id must match exactly from the provided memories")
	b.WriteString("\n- Show titles should be personal and address the patient in second person")
	b.WriteString("\n- IMPORTANT: For video memories, keep the narration SHORT and concise. Video narrations should be brief and to the point.")
	b.WriteString("\n- DO NOT hallucinate details not present in the memory descriptions")

	patientName := ""
	if p := req.PatientContext; p != nil {
		patientName = p.Name
		fmt.Fprintf(&b, "\n\n--- PATIENT INFO ---\nName: %s", p.Name)
		if p.Age != nil && *p.Age != 0 {
			fmt.Fprintf(&b, "\nAge: %d", *p.Age)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "\nNotes: %s", p.Description)
		}
	}

	if len(req.ContextMemories) > 0 {
		b.WriteString("\n\n--- RELEVANT MEMORIES ---")
		for i, mem := range req.ContextMemories {
			fmt.Fprintf(&b, "\nMemory %d (ID: %s):", i+1, mem.MemoryID)
			fmt.Fprintf(&b, "\n%s", mem.Description)
			if patientName != "" {
				if PatientPresent(patientName, mem.Description) {
					fmt.Fprintf(&b, "\nPatient Status: PRESENT. The patient, %s, is in this memory. You MUST refer to them as \"you\".", patientName)
				} else {
					b.WriteString("\nPatient Status: NOT PRESENT. The patient is NOT in this memory. You MUST refer to all people by their names.")
				}
			}
			b.WriteString("\n")
		}

		if len(visual) > 0 {
			b.WriteString("\n--- MANDATORY SCENE CREATION ---")
			fmt.Fprintf(&b, "\nYou MUST create %d scenes using these exact memory IDs:", len(visual))
			for i, mem := range visual {
				fmt.Fprintf(&b, "\n- Scene %d: memory_id '%s' (%s)", i+1, mem.MemoryID, mem.Type)
				if mem.Type == "video" {
					b.WriteString(" - KEEP NARRATION SHORT")
				}
			}
			fmt.Fprintf(&b, "\nDO NOT create fewer than %d scenes. Each visual memory MUST have its own scene.", len(visual))
		}
	} else {
		b.WriteString("\n\n--- NO RELEVANT MEMORIES ---")
		b.WriteString("\nNo specific memories were found related to this query.")
	}

	b.WriteString("\n\n--- RESPOND NOW ---")
	fmt.Fprintf(&b, "\nUser Query: '%s'", req.Query)
	if mode == ModeCasual {
		b.WriteString("\nProvide a warm, casual response using NARRATIVE format.")
	} else {
		b.WriteString("\nProvide an appropriate response based on the memories and rules above.")
	}

	return b.String()
}

// PatientPresent reports whether a memory description mentions the patient,
// either by name or through the second-person marker "you".
func PatientPresent(patientName, description string) bool {
	desc := strings.ToLower(description)
	return strings.Contains(desc, strings.ToLower(patientName)) ||
		strings.Contains(desc, " you ") ||
		strings.HasPrefix(desc, "you ") ||
		strings.HasSuffix(desc, " you")
}

func visualMemories(mems []MemoryContext) []MemoryContext {
	var out []MemoryContext
	for _, m := range mems {
		if m.IsVisual() {
			out = append(out, m)
		}
	}
	return out
}
