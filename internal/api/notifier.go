package telegram

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"plant-phenotyper/internal/domain/entity"
)

// maxListed caps how many labels are spelled out per line of a summary.
const maxListed = 12

// sender is the part of *tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts run summaries to one Telegram chat.
type Notifier struct {
	api    sender
	chatID int64
}

// NewNotifier authorizes the bot token and targets chatID.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

func newNotifierWithSender(api sender, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// Notify sends the summary text and, when given, the preview as a photo.
func (n *Notifier) Notify(ctx context.Context, summary entity.RunSummary, preview image.Image) error {
	_ = ctx
	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(summary))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	if preview == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, preview, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: buf.Bytes()})
	photo.Caption = fmt.Sprintf("%s · %s", summary.Workflow, shortID(summary.RunID))
	if _, err := n.api.Send(photo); err != nil {
		return fmt.Errorf("send preview: %w", err)
	}
	return nil
}

// FormatSummary renders a run summary as a chat message.
func FormatSummary(s entity.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌱 %s run %s finished\n", s.Workflow, shortID(s.RunID))
	fmt.Fprintf(&b, "📂 Inputs: %d\n", len(s.Inputs))
	fmt.Fprintf(&b, "📊 Records: %d\n", s.Records)
	if len(s.Analyzed) > 0 {
		fmt.Fprintf(&b, "✅ Analyzed: %s\n", listed(s.Analyzed))
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, "⚠️ No plant found: %s\n", listed(s.Skipped))
	}
	if s.ResultPath != "" {
		fmt.Fprintf(&b, "💾 %s", s.ResultPath)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listed(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s … (+%d)", strings.Join(items[:maxListed], ", "), len(items)-maxListed)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
