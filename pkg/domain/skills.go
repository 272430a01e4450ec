package domain

import (
	"encoding/json"
	"strings"
)

// SkillList is an ordered sequence of skill names. The server is
// inconsistent about its wire shape: upload responses carry a JSON array,
// list responses carry a comma-separated string, and unprocessed resumes
// carry null. All three decode cleanly; nil means "still processing".
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = items
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	*s = out
	return nil
}

func (s SkillList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]string(s))
}
