package app

import (
	"encoding/json"
	"strings"
)

// ParsedAnswer is the structured payload extracted from raw model output.
// ResourceIDs never contains duplicates.
type ParsedAnswer struct {
	Answer      string
	ResourceIDs []string
}

// ParseAnswer extracts {answer, resource_id} from raw model output. The model
// is instructed, not guaranteed, to emit JSON only, so this parser is
// tolerant: it scans greedily from the first '{' to the last '}' and falls
// back to the trimmed raw text with no sources when anything about the JSON
// is off. It never returns an error.
func ParseAnswer(raw string) ParsedAnswer {
	trimmed := strings.TrimSpace(raw)
	fallback := ParsedAnswer{Answer: trimmed}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return fallback
	}

	var payload struct {
		Answer     string   `json:"answer"`
		ResourceID []string `json:"resource_id"`
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return fallback
	}

	answer := strings.TrimSpace(payload.Answer)
	if answer == "" {
		answer = trimmed
	}
	return ParsedAnswer{
		Answer:      answer,
		ResourceIDs: dedupe(payload.ResourceID),
	}
}

// dedupe removes duplicate ids keeping first occurrence order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
