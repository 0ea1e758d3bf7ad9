package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// sendTimeout — сколько ждём Telegram на одно сообщение.
const sendTimeout = 10 * time.Second

// messageSender — часть telego.Bot, которой пользуется TelegramNotifier.
type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramNotifier шлёт уведомления в чат администраторов.
// Пропускает всё ниже minLevel.
type TelegramNotifier struct {
	bot      messageSender
	chatID   int64
	minLevel Level
}

// NewTelegram создаёт канал по токену бота.
func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать Telegram-бота: %w", err)
	}
	log.WithField("chat_id", chatID).Info("Telegram-алерты включены")
	return &TelegramNotifier{bot: bot, chatID: chatID, minLevel: LevelWarn}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, n Notice) error {
	if rank(n.Level) < rank(t.minLevel) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: t.chatID},
		Text:   FormatText(n),
	})
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

// FormatText — текст сообщения: заголовок, текст, поля по алфавиту.
func FormatText(n Notice) string {
	var b strings.Builder
	icon := "ℹ️"
	switch n.Level {
	case LevelAlert:
		icon = "🚨"
	case LevelWarn:
		icon = "⚠️"
	}
	fmt.Fprintf(&b, "%s %s\n%s", icon, n.Title, n.Text)

	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s: %v", k, n.Fields[k])
	}
	return b.String()
}

func rank(l Level) int {
	switch l {
	case LevelAlert:
		return 2
	case LevelWarn:
		return 1
	default:
		return 0
	}
}
