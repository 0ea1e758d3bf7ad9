// Package notify доставляет служебные уведомления: в лог и, если настроено,
// в Telegram-чат администраторов. Используется для алертов, которые нельзя
// потерять (списание не записалось, сверка нашла расхождения).
package notify

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// Level — важность уведомления.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelAlert Level = "alert"
)

// Notice — одно уведомление.
type Notice struct {
	Level  Level
	Title  string
	Text   string
	Fields map[string]any
}

// Notifier — канал доставки уведомлений.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// LogNotifier пишет уведомления в logrus.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notice) error {
	entry := log.WithFields(log.Fields(n.Fields)).WithField("title", n.Title)
	switch n.Level {
	case LevelAlert:
		entry.Error(n.Text)
	case LevelWarn:
		entry.Warn(n.Text)
	default:
		entry.Info(n.Text)
	}
	return nil
}

// Multi рассылает уведомление во все каналы. Ошибка одного канала
// не мешает остальным.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
