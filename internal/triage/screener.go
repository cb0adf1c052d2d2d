package triage

import "strings"

// EmergencyAddendum is appended to the assistant reply whenever the inbound
// message trips the screener, regardless of what the model said.
const EmergencyAddendum = "\n\n⚠️ Your symptoms may be serious. Please visit a doctor immediately."

// redFlags are matched case-insensitively as substrings. There is no negation
// handling: "no chest pain" still triggers. Known limitation, kept on purpose.
var redFlags = []string{
	"chest pain",
	"breathless",
	"faint",
	"unconscious",
	"seizure",
	"vomiting blood",
}

// Screener flags messages that describe a potential medical emergency.
type Screener struct{}

// NewScreener returns the fixed-phrase emergency screener.
func NewScreener() *Screener {
	return &Screener{}
}

// IsEmergency reports whether text contains any red-flag phrase.
func (s *Screener) IsEmergency(text string) bool {
	lowered := strings.ToLower(text)
	for _, flag := range redFlags {
		if strings.Contains(lowered, flag) {
			return true
		}
	}
	return false
}
