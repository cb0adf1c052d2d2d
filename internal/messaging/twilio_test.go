package messaging

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func signedRequest(t *testing.T, target, authToken string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", computeSignature(buildSignaturePayload(target, form), authToken))
	return req
}

func TestValidateTwilioSignature(t *testing.T) {
	form := url.Values{}
	form.Set("Body", "I have a headache")
	form.Set("From", "whatsapp:+911234567890")
	target := "https://api.caremate.health/api/whatsapp-inbound"

	req := signedRequest(t, target, "secret", form)
	if !ValidateTwilioSignature(req, "secret", target) {
		t.Fatal("expected valid signature to pass")
	}
}

func TestValidateTwilioSignatureRejectsTampering(t *testing.T) {
	form := url.Values{}
	form.Set("Body", "hello")
	target := "https://api.caremate.health/api/whatsapp-inbound"

	req := signedRequest(t, target, "secret", form)
	if ValidateTwilioSignature(req, "other-token", target) {
		t.Fatal("expected signature from wrong token to fail")
	}

	unsigned := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if ValidateTwilioSignature(unsigned, "secret", target) {
		t.Fatal("expected missing signature to fail")
	}
}

func TestParseInbound(t *testing.T) {
	form := url.Values{}
	form.Set("MessageSid", "SM1")
	form.Set("From", "whatsapp:+911234567890")
	form.Set("To", "whatsapp:+14155238886")
	form.Set("Body", "I have a headache")

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp-inbound", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := ParseInbound(req)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.Body != "I have a headache" || msg.From != "whatsapp:+911234567890" {
		t.Fatalf("unexpected parse result: %+v", msg)
	}
}

func TestStripWhatsAppPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"whatsapp:+911234567890", "+911234567890"},
		{"+911234567890", "+911234567890"},
		{"  whatsapp:+1555  ", "+1555"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripWhatsAppPrefix(tt.in); got != tt.want {
			t.Errorf("StripWhatsAppPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+91 12345 67890", "+911234567890"},
		{"(415) 523-8886", "+4155238886"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := NormalizeE164(tt.in); got != tt.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMessagingResponseEscapes(t *testing.T) {
	got := MessagingResponse(`Drink water & rest. <3`)
	if !strings.Contains(got, "Drink water &amp; rest. &lt;3") {
		t.Fatalf("expected escaped body, got %s", got)
	}
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?><Response><Message>`) {
		t.Fatalf("unexpected envelope: %s", got)
	}
}
