package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/caremate-health/caremate/internal/assistant"
	"github.com/caremate-health/caremate/internal/interactions"
	"github.com/caremate-health/caremate/internal/observability/metrics"
	"github.com/caremate-health/caremate/internal/triage"
	"github.com/caremate-health/caremate/pkg/logging"
)

// ErrEmptyMessage is a client error: the inbound message had no text.
var ErrEmptyMessage = errors.New("chat: message cannot be empty")

// Classifier tags message text with a language code. Total function.
type Classifier interface {
	Classify(text string) string
}

// Screener flags potential medical emergencies. Total function.
type Screener interface {
	IsEmergency(text string) bool
}

// AssistantClient obtains the assistant reply for a conversation.
type AssistantClient interface {
	Reply(ctx context.Context, conv assistant.Conversation) (string, error)
}

// InteractionStore persists one record per completed turn.
type InteractionStore interface {
	Append(ctx context.Context, rec interactions.Record) (interactions.Record, error)
}

// Messenger pushes a message to a user over the outbound channel.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// HistoryStore caches recent turns for the direct-API path. May be nil-backed.
type HistoryStore interface {
	Load(ctx context.Context, userID string) ([]assistant.Message, error)
	Record(ctx context.Context, userID, userText, replyText string) error
}

// Options control the flow variants that used to be copy-pasted branches:
// whether the direct-API path injects prior turns, and how many.
type Options struct {
	HistoryEnabled bool
	HistoryLimit   int
}

// Service drives the inbound-message flow: classify, converse, screen,
// persist, dispatch. One flow per call, strictly in that order.
type Service struct {
	classifier Classifier
	screener   Screener
	assistant  AssistantClient
	store      InteractionStore
	messenger  Messenger
	history    HistoryStore
	opts       Options
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// NewService wires the flow's collaborators. classifier, screener, assistant
// and store are required; messenger is required for webhook-origin events;
// history and chatMetrics may be nil.
func NewService(
	classifier Classifier,
	screener Screener,
	assistantClient AssistantClient,
	store InteractionStore,
	messenger Messenger,
	history HistoryStore,
	opts Options,
	chatMetrics *metrics.ChatMetrics,
	logger *logging.Logger,
) *Service {
	if classifier == nil {
		panic("chat: classifier cannot be nil")
	}
	if screener == nil {
		panic("chat: screener cannot be nil")
	}
	if assistantClient == nil {
		panic("chat: assistant client cannot be nil")
	}
	if store == nil {
		panic("chat: interaction store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	return &Service{
		classifier: classifier,
		screener:   screener,
		assistant:  assistantClient,
		store:      store,
		messenger:  messenger,
		history:    history,
		opts:       opts,
		metrics:    chatMetrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Process runs one inbound message through the full flow. On assistant
// failure the flow aborts with no record and no dispatch; the returned Result
// still carries the detected language so callers can localize the apology.
func (s *Service) Process(ctx context.Context, event MessageEvent) (Result, error) {
	started := s.now()
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return Result{}, ErrEmptyMessage
	}

	lang := s.classifier.Classify(text)
	result := Result{Language: lang}

	var priorTurns []assistant.Message
	if event.Origin == OriginAPI && s.opts.HistoryEnabled && s.history != nil {
		turns, err := s.history.Load(ctx, event.UserID)
		if err != nil {
			s.logger.Warn("failed to load history, continuing without", "user_id", event.UserID, "error", err)
		} else {
			priorTurns = turns
		}
	}

	historyLimit := 0
	if event.Origin == OriginAPI && s.opts.HistoryEnabled {
		historyLimit = s.opts.HistoryLimit
	}
	conv := assistant.NewConversation(lang, text, priorTurns, historyLimit)

	reply, err := s.assistant.Reply(ctx, conv)
	if err != nil {
		var upstream *assistant.UpstreamError
		if errors.As(err, &upstream) {
			s.metrics.ObserveUpstreamFailure(string(upstream.Kind))
		}
		s.metrics.ObserveInbound(string(event.Origin), "upstream_error")
		return result, err
	}

	if s.screener.IsEmergency(text) {
		reply += triage.EmergencyAddendum
		result.Emergency = true
	}
	result.Reply = reply
	result.Timestamp = s.now().UTC()

	rec, err := s.store.Append(ctx, interactions.Record{
		UserID:      event.UserID,
		Language:    lang,
		InboundText: text,
		ReplyText:   reply,
	})
	if err != nil {
		// Persistence is best-effort from the user's perspective: the
		// reply still goes out.
		s.logger.Error("failed to persist interaction", "user_id", event.UserID, "error", err)
	} else {
		result.Timestamp = rec.CreatedAt
	}

	if event.Origin == OriginAPI && s.opts.HistoryEnabled && s.history != nil {
		if err := s.history.Record(ctx, event.UserID, text, reply); err != nil {
			s.logger.Warn("failed to record history", "user_id", event.UserID, "error", err)
		}
	}

	if event.Origin == OriginWhatsApp && s.messenger != nil {
		if _, err := s.messenger.Send(ctx, event.UserID, reply); err != nil {
			// A failed push does not retract the reply; the webhook ack
			// still carries it.
			s.logger.Error("failed to dispatch reply", "user_id", event.UserID, "error", err)
		}
	}

	s.metrics.ObserveInbound(string(event.Origin), "ok")
	s.metrics.ObserveFlowLatency(string(event.Origin), s.now().Sub(started).Seconds())
	return result, nil
}
