package services

import "testing"

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"score": 7}`, `{"score": 7}`},
		{"json fence", "```json\n{\"score\": 7}\n```", `{"score": 7}`},
		{"bare fence", "```\n[\"q1\"]\n```", `["q1"]`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripJSONFences(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestParseRoadmap(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid roadmap", `{"title": "Roadmap", "steps": [{"title": "Step 1"}]}`, false},
		{"fenced roadmap", "```json\n{\"title\": \"Roadmap\", \"steps\": [{\"title\": \"Step 1\"}]}\n```", false},
		{"no steps", `{"title": "Roadmap", "steps": []}`, true},
		{"missing steps", `{"title": "Roadmap"}`, true},
		{"not json", "here is your roadmap:", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := parseRoadmap(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", raw)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
