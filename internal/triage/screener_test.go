package triage

import "testing"

func TestIsEmergency(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"chest pain", "I have chest pain since morning", true},
		{"uppercase", "SEVERE CHEST PAIN", true},
		{"mixed case", "feeling Breathless after walking", true},
		{"faint", "I almost faint when standing", true},
		{"unconscious", "my father is unconscious", true},
		{"seizure", "he had a seizure last night", true},
		{"vomiting blood", "vomiting blood twice today", true},
		{"negated still triggers", "no chest pain at all", true},
		{"embedded in word", "I fainted", true},
		{"headache", "I have a headache", false},
		{"empty", "", false},
		{"benign", "mild cough and runny nose", false},
	}

	s := NewScreener()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsEmergency(tt.text); got != tt.want {
				t.Errorf("IsEmergency(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
