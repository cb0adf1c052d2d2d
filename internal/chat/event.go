package chat

import "time"

// Origin identifies the channel an inbound message arrived on.
type Origin string

const (
	// OriginAPI is the direct JSON API; the caller receives the reply
	// synchronously in the response body.
	OriginAPI Origin = "api"
	// OriginWhatsApp is the Twilio webhook; the reply is pushed back over
	// the messaging channel.
	OriginWhatsApp Origin = "whatsapp"
)

// MessageEvent is the normalized representation of one inbound message,
// regardless of origin. Created per request and discarded after the flow.
type MessageEvent struct {
	UserID string
	Text   string
	Origin Origin
}

// Result is the outcome of one completed flow.
type Result struct {
	Reply     string
	Language  string
	Timestamp time.Time
	Emergency bool
}
