package messaging

import (
	"encoding/xml"
	"strings"
)

// MessagingResponse renders the TwiML document Twilio expects as the webhook
// reply body; the embedded message is delivered back to the sender.
func MessagingResponse(body string) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(body))
	return `<?xml version="1.0" encoding="UTF-8"?><Response><Message>` + escaped.String() + `</Message></Response>`
}

// EmptyResponse is the TwiML acknowledgment with no outbound message.
func EmptyResponse() string {
	return `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`
}
