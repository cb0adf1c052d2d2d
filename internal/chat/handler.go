package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/caremate-health/caremate/internal/messaging"
	"github.com/caremate-health/caremate/pkg/logging"
)

// apologies are the user-facing failure messages, keyed by detected language.
// Technical detail is logged, never shown to the end user.
var apologies = map[string]string{
	"en": "Sorry, I'm having trouble connecting right now. Please try again in a moment.",
	"hi": "क्षमा करें, मुझे अभी कनेक्ट करने में समस्या हो रही है। कृपया कुछ देर बाद पुनः प्रयास करें।",
	"bn": "দুঃখিত, আমি এখন সংযোগ করতে সমস্যা হচ্ছে। অনুগ্রহ করে একটু পরে আবার চেষ্টা করুন।",
	"te": "క్షమించండి, నేను ఇప్పుడు కనెక్ట్ చేయడంలో సమస్య ఎదుర్కొంటున్నాను। దయచేసి కొంత సమయం తర్వాత మళ్లీ ప్రయత్నించండి।",
}

func apologyFor(language string) string {
	if msg, ok := apologies[language]; ok {
		return msg
	}
	return apologies["en"]
}

// HealthInfo reports which external-service credentials are configured.
type HealthInfo struct {
	GroqConfigured     bool
	TwilioConfigured   bool
	DatabaseConfigured bool
	RedisConfigured    bool
}

// Handler exposes the inbound-message flow over HTTP.
type Handler struct {
	service       *Service
	classifier    Classifier
	webhookSecret string
	health        HealthInfo
	logger        *logging.Logger
}

// NewHandler creates the HTTP-facing side of the flow. webhookSecret enables
// Twilio signature validation when non-empty.
func NewHandler(service *Service, classifier Classifier, webhookSecret string, health HealthInfo, logger *logging.Logger) *Handler {
	if service == nil {
		panic("chat: service cannot be nil")
	}
	if classifier == nil {
		panic("chat: classifier cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:       service,
		classifier:    classifier,
		webhookSecret: webhookSecret,
		health:        health,
		logger:        logger,
	}
}

type healthChatRequest struct {
	Message string `json:"message"`
	Phone   string `json:"phone"`
}

type healthChatResponse struct {
	Response  string `json:"response"`
	Language  string `json:"language"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error          string `json:"error"`
	TechnicalError string `json:"technical_error,omitempty"`
	Success        bool   `json:"success"`
}

// HealthChat handles POST /api/health-chat: the direct-API entry point. The
// caller is the recipient, so the reply comes back in the response body.
func (h *Handler) HealthChat(w http.ResponseWriter, r *http.Request) {
	var req healthChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	phone := strings.TrimSpace(req.Phone)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message cannot be empty"})
		return
	}
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Phone number is required"})
		return
	}

	result, err := h.service.Process(r.Context(), MessageEvent{
		UserID: phone,
		Text:   message,
		Origin: OriginAPI,
	})
	if err != nil {
		h.logger.Error("health chat flow failed", "phone", phone, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:          apologyFor(result.Language),
			TechnicalError: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthChatResponse{
		Response:  result.Reply,
		Language:  result.Language,
		Success:   true,
		Timestamp: result.Timestamp.Format(time.RFC3339),
	})
}

// WhatsAppInbound handles POST /api/whatsapp-inbound: the Twilio webhook.
// The response body is a TwiML document embedding the reply.
func (h *Handler) WhatsAppInbound(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		webhookURL := messaging.BuildAbsoluteURL(r)
		if !messaging.ValidateTwilioSignature(r, h.webhookSecret, webhookURL) {
			h.logger.Warn("invalid twilio signature")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	inbound, err := messaging.ParseInbound(r)
	if err != nil {
		h.logger.Error("failed to parse webhook", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	from := messaging.StripWhatsAppPrefix(inbound.From)
	body := strings.TrimSpace(inbound.Body)
	if from == "" || body == "" {
		h.logger.Error("invalid webhook payload", "from", inbound.From)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.logger.Info("inbound whatsapp message", "from", from)

	result, err := h.service.Process(r.Context(), MessageEvent{
		UserID: from,
		Text:   body,
		Origin: OriginWhatsApp,
	})
	if err != nil {
		// The user still gets a localized apology through the channel;
		// raw errors never leave the process.
		h.logger.Error("whatsapp flow failed", "from", from, "error", err)
		writeTwiML(w, messaging.MessagingResponse(apologyFor(result.Language)))
		return
	}

	writeTwiML(w, messaging.MessagingResponse(result.Reply))
}

type detectLanguageRequest struct {
	Text string `json:"text"`
}

type detectLanguageResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	Success    bool    `json:"success"`
}

// DetectLanguage handles POST /api/detect-language as a standalone utility.
func (h *Handler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req detectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Text is required"})
		return
	}

	writeJSON(w, http.StatusOK, detectLanguageResponse{
		Language:   h.classifier.Classify(req.Text),
		Confidence: 0.9,
		Success:    true,
	})
}

// HealthCheck handles GET /api/health, reporting credential configuration.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := func(ok bool) string {
		if ok {
			return "configured"
		}
		return "missing"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"groq":     status(h.health.GroqConfigured),
			"twilio":   status(h.health.TwilioConfigured),
			"database": status(h.health.DatabaseConfigured),
			"redis":    status(h.health.RedisConfigured),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeTwiML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
