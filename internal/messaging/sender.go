package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caremate-health/caremate/pkg/logging"
)

var senderTracer = otel.Tracer("caremate.internal.messaging.sender")

const defaultTwilioBaseURL = "https://api.twilio.com"

// WhatsAppSender posts outbound WhatsApp messages through Twilio's REST API.
// Delivery is attempted at most once per call; failed sends are reported to
// the caller, never queued or retried here.
type WhatsAppSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewWhatsAppSender builds a sender with sane defaults. from is the fixed
// sending address in E.164 form, without the whatsapp: tag.
func NewWhatsAppSender(accountSID, authToken, from string, logger *logging.Logger) *WhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultTwilioBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Send dispatches one WhatsApp message and returns the provider message id.
func (s *WhatsAppSender) Send(ctx context.Context, to, body string) (string, error) {
	if s.accountSID == "" || s.authToken == "" {
		return "", &DeliveryError{To: to, Err: errors.New("twilio credentials missing")}
	}
	if strings.TrimSpace(to) == "" {
		return "", &DeliveryError{To: to, Err: errors.New("recipient required")}
	}
	if strings.TrimSpace(body) == "" {
		return "", &DeliveryError{To: to, Err: errors.New("body required")}
	}

	ctx, span := senderTracer.Start(ctx, "messaging.whatsapp.send")
	defer span.End()
	span.SetAttributes(attribute.String("caremate.to", to))

	payload := url.Values{}
	payload.Set("To", WhatsAppPrefix+to)
	payload.Set("From", WhatsAppPrefix+s.from)
	payload.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		span.RecordError(err)
		return "", &DeliveryError{To: to, Err: err}
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", &DeliveryError{To: to, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("twilio: %s", formatTwilioError(resp.StatusCode, respBody))
		span.RecordError(err)
		return "", &DeliveryError{To: to, Err: err}
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.SID == "" {
		// Accepted by the gateway; a missing sid is not a delivery failure.
		s.logger.Warn("twilio response missing message sid", "to", to)
		return "", nil
	}

	s.logger.Info("whatsapp message sent", "to", to, "message_sid", parsed.SID)
	return parsed.SID, nil
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
