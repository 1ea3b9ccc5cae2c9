// Package line is the transport boundary: it verifies and decodes LINE
// webhook callbacks, downloads image content, and delivers replies through
// the Messaging API.
package line

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/hychen-tw/mombot/internal/bot"
	"github.com/hychen-tw/mombot/internal/observability/metrics"
	"github.com/hychen-tw/mombot/pkg/logging"
)

// Dispatcher is the core the transport hands decoded events to.
type Dispatcher interface {
	HandleText(ctx context.Context, userID, text string) string
	HandleImage(ctx context.Context, userID string, image []byte) string
}

// replier is the slice of the Messaging API used for delivery.
type replier interface {
	ReplyMessage(request *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// ContentFetcher downloads the binary payload of a message by its ID.
type ContentFetcher interface {
	GetMessageContent(messageID string) ([]byte, error)
}

// WebhookConfig wires the webhook handler.
type WebhookConfig struct {
	ChannelSecret string
	Client        replier
	Blobs         ContentFetcher
	Dispatcher    Dispatcher
	Metrics       *metrics.BotMetrics
	Logger        *logging.Logger
}

// WebhookHandler handles POST /callback.
type WebhookHandler struct {
	channelSecret string
	client        replier
	blobs         ContentFetcher
	dispatcher    Dispatcher
	metrics       *metrics.BotMetrics
	logger        *logging.Logger
}

func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Client == nil {
		panic("line: messaging client cannot be nil")
	}
	if cfg.Dispatcher == nil {
		panic("line: dispatcher cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		channelSecret: cfg.ChannelSecret,
		client:        cfg.Client,
		blobs:         cfg.Blobs,
		dispatcher:    cfg.Dispatcher,
		metrics:       cfg.Metrics,
		logger:        logger,
	}
}

// Handle verifies the callback signature and processes each event
// synchronously. An invalid signature rejects the whole request with no
// reply generated.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("invalid line webhook signature")
			h.metrics.ObserveInbound("callback", "invalid_signature")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to parse line webhook request", "error", err)
		http.Error(w, "invalid request", http.StatusInternalServerError)
		return
	}

	for _, event := range cb.Events {
		h.handleEvent(r.Context(), event)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event webhook.EventInterface) {
	me, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	src, ok := me.Source.(webhook.UserSource)
	if !ok {
		// Group and room chats are out of scope for a family bot.
		return
	}

	start := time.Now()
	var eventType, reply string

	switch msg := me.Message.(type) {
	case webhook.TextMessageContent:
		eventType = "text"
		reply = h.dispatcher.HandleText(ctx, src.UserId, msg.Text)
	case webhook.ImageMessageContent:
		eventType = "image"
		reply = h.handleImage(ctx, src.UserId, msg.Id)
	default:
		h.metrics.ObserveInbound("unsupported", "skipped")
		return
	}

	status := "ok"
	if err := h.reply(me.ReplyToken, reply); err != nil {
		// Delivery is best effort; the reply token may already be spent.
		status = "reply_error"
		h.logger.Error("failed to deliver reply", "user_id", src.UserId, "error", err)
	}
	h.metrics.ObserveInbound(eventType, status)
	h.metrics.ObserveWebhookLatency(eventType, time.Since(start).Seconds())
}

func (h *WebhookHandler) handleImage(ctx context.Context, userID, messageID string) string {
	if h.blobs == nil {
		return bot.ImageFailureMessage(errors.New("content download is not configured"))
	}
	data, err := h.blobs.GetMessageContent(messageID)
	if err != nil {
		h.logger.Warn("failed to download image content", "message_id", messageID, "error", err)
		return bot.ImageFailureMessage(err)
	}
	return h.dispatcher.HandleImage(ctx, userID, data)
}

func (h *WebhookHandler) reply(replyToken, text string) error {
	_, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: text},
		},
	})
	return err
}
