package messaging

import "strings"

// WhatsAppPrefix is the channel tag Twilio puts on WhatsApp addresses.
const WhatsAppPrefix = "whatsapp:"

// StripWhatsAppPrefix removes the channel tag from a webhook sender address.
func StripWhatsAppPrefix(value string) string {
	return strings.TrimPrefix(strings.TrimSpace(value), WhatsAppPrefix)
}

// NormalizeE164 ensures the value begins with + and only contains digits afterward.
func NormalizeE164(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	digits := sanitizePhone(value)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
