// Package bot holds the message dispatcher: it classifies inbound text by an
// ordered rule list, drives the per-user chat-mode session transitions, and
// builds exactly one reply string per event.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hychen-tw/mombot/internal/observability/metrics"
	"github.com/hychen-tw/mombot/internal/session"
	"github.com/hychen-tw/mombot/pkg/logging"
)

const (
	// entryTrigger starts a chat-mode session when a message begins with it.
	entryTrigger = "親愛的你好"

	weatherKeyword   = "天氣"
	encourageKeyword = "加油"
	affectionKeyword = "愛你"
	companionKeyword = "陪我"

	personaPrompt = "你是一個住在美國的貼心孩子，正在用 LINE 和住在台灣的媽媽聊天。" +
		"請用溫暖自然的台灣繁體中文回覆，語氣親切、簡短，就像家人日常聊天一樣。"

	visionInstruction = "幫我描述這張圖片"

	aiModeBanner = "（聊天模式開啟囉！說「掰掰」就可以結束～）\n"

	msgFarewell     = "好的～那先聊到這邊，想我的時候再叫我喔～ 💖"
	msgChatFailure  = "我現在腦袋有點打結，等一下再跟我聊一次好嗎～ 🙏"
	msgImageFailure = "我在看圖片時出錯了：%v"
	msgEncourage    = "媽～妳已經很棒了！不管遇到什麼我都挺妳，加油加油 💪"
	msgAffection    = "我也愛妳～妳是全世界最好的媽媽 ❤️"
	msgDefault      = "媽～我愛妳喔～祝妳天天開心 ❤️"
)

// exitPhrases end a chat-mode session immediately, from any state.
var exitPhrases = []string{"掰掰", "再見", "不聊了"}

// ChatService produces generated replies and image descriptions.
type ChatService interface {
	Chat(ctx context.Context, persona, userText string) (string, error)
	DescribeImage(ctx context.Context, instruction string, image []byte) (string, error)
}

// WeatherService renders a weather report for free-text location input. The
// result is always user-facing text; provider failures never surface here.
type WeatherService interface {
	Lookup(ctx context.Context, location string, now time.Time) string
}

// Config wires the dispatcher's collaborators.
type Config struct {
	Sessions session.Store
	Chat     ChatService
	Weather  WeatherService
	Metrics  *metrics.BotMetrics
	Logger   *logging.Logger
	Clock    func() time.Time
}

// Dispatcher routes one inbound event to zero or one adapter and returns the
// reply text.
type Dispatcher struct {
	sessions session.Store
	chat     ChatService
	weather  WeatherService
	metrics  *metrics.BotMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.Sessions == nil {
		panic("bot: session store cannot be nil")
	}
	if cfg.Chat == nil {
		panic("bot: chat service cannot be nil")
	}
	if cfg.Weather == nil {
		panic("bot: weather service cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{
		sessions: cfg.Sessions,
		chat:     cfg.Chat,
		weather:  cfg.Weather,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      clock,
	}
}

// textRule pairs a predicate with its reply handler. Keeping the rules as an
// ordered list makes the precedence auditable: the first match wins and the
// final rule matches everything.
type textRule struct {
	intent string
	match  func(d *Dispatcher, userID, text string, now time.Time) bool
	reply  func(ctx context.Context, d *Dispatcher, userID, text string, now time.Time) string
}

var textRules = []textRule{
	{
		// An exit phrase wins over everything, including an active session.
		intent: "exit",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return isExitPhrase(text)
		},
		reply: func(_ context.Context, d *Dispatcher, userID, _ string, _ time.Time) string {
			d.sessions.Exit(userID)
			return msgFarewell
		},
	},
	{
		// Inside an active session every message goes to the model. The
		// entry timestamp is not refreshed: the window is fixed from entry.
		intent: "chat",
		match: func(d *Dispatcher, userID, _ string, now time.Time) bool {
			return d.sessions.Active(userID, now)
		},
		reply: func(ctx context.Context, d *Dispatcher, _, text string, _ time.Time) string {
			return d.chatReply(ctx, text)
		},
	},
	{
		intent: "chat_entry",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return strings.HasPrefix(text, entryTrigger)
		},
		reply: func(ctx context.Context, d *Dispatcher, userID, text string, now time.Time) string {
			d.sessions.Enter(userID, now)
			// The whole original text, trigger included, is the first turn.
			return aiModeBanner + d.chatReply(ctx, text)
		},
	},
	{
		intent: "weather",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return strings.Contains(text, weatherKeyword)
		},
		reply: func(ctx context.Context, d *Dispatcher, _, text string, now time.Time) string {
			location := strings.TrimSpace(strings.ReplaceAll(text, weatherKeyword, ""))
			return d.weather.Lookup(ctx, location, now)
		},
	},
	{
		intent: "encourage",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return strings.Contains(text, encourageKeyword)
		},
		reply: func(context.Context, *Dispatcher, string, string, time.Time) string {
			return msgEncourage
		},
	},
	{
		intent: "affection",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return strings.Contains(text, affectionKeyword)
		},
		reply: func(context.Context, *Dispatcher, string, string, time.Time) string {
			return msgAffection
		},
	},
	{
		intent: "companion",
		match: func(_ *Dispatcher, _, text string, _ time.Time) bool {
			return strings.Contains(text, companionKeyword)
		},
		reply: func(_ context.Context, _ *Dispatcher, _, _ string, now time.Time) string {
			return companionReply(now)
		},
	},
	{
		intent: "default",
		match: func(*Dispatcher, string, string, time.Time) bool {
			return true
		},
		reply: func(context.Context, *Dispatcher, string, string, time.Time) string {
			return msgDefault
		},
	},
}

// HandleText classifies one text event and returns the reply.
func (d *Dispatcher) HandleText(ctx context.Context, userID, text string) string {
	text = strings.TrimSpace(text)
	now := d.now()

	for _, rule := range textRules {
		if !rule.match(d, userID, text, now) {
			continue
		}
		d.metrics.ObserveIntent(rule.intent)
		d.logger.Debug("dispatching text message", "user_id", userID, "intent", rule.intent)
		return rule.reply(ctx, d, userID, text, now)
	}
	return msgDefault
}

// HandleImage describes an inbound image. Session state plays no part here.
func (d *Dispatcher) HandleImage(ctx context.Context, userID string, image []byte) string {
	d.metrics.ObserveIntent("image")
	d.logger.Debug("dispatching image message", "user_id", userID, "bytes", len(image))

	out, err := d.chat.DescribeImage(ctx, visionInstruction, image)
	if err != nil {
		d.logger.Warn("image description failed", "user_id", userID, "error", err)
		d.metrics.ObserveProviderFailure("openai")
		return ImageFailureMessage(err)
	}
	return out
}

// ImageFailureMessage formats the user-facing reply for any fault while
// handling an image, including content download failures at the transport.
func ImageFailureMessage(err error) string {
	return fmt.Sprintf(msgImageFailure, err)
}

func (d *Dispatcher) chatReply(ctx context.Context, text string) string {
	out, err := d.chat.Chat(ctx, personaPrompt, text)
	if err != nil {
		d.logger.Warn("chat completion failed", "error", err)
		d.metrics.ObserveProviderFailure("openai")
		return msgChatFailure
	}
	return out
}

func isExitPhrase(text string) bool {
	for _, phrase := range exitPhrases {
		if text == phrase {
			return true
		}
	}
	return false
}
