// Package admin — service.go: проверка пароля и ручные события журнала.
package admin

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
)

// Recorder — запись события в журнал очков.
type Recorder interface {
	Record(ctx context.Context, identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
}

// Service — админские операции.
type Service struct {
	recorder     Recorder
	notifier     notify.Notifier
	passwordHash string
	maxAttempts  int
	attempts     *attempts
}

// NewService создаёт сервис. Пустой passwordHash отключает админку.
func NewService(recorder Recorder, notifier notify.Notifier, passwordHash string, maxAttempts int) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		recorder:     recorder,
		notifier:     notifier,
		passwordHash: passwordHash,
		maxAttempts:  maxAttempts,
		attempts:     newAttempts(),
	}
}

// VerifyPassword проверяет пароль с защитой от перебора:
// maxAttempts неудачных попыток за час блокируют клиента на час.
func (s *Service) VerifyPassword(client, password string) error {
	if s.passwordHash == "" {
		return common.ErrAdminDisabled
	}
	if s.attempts.recent(client) >= s.maxAttempts {
		return common.ErrTooManyAttempts
	}
	ok, err := verifyArgon2id(password, s.passwordHash)
	if err != nil {
		// Попытку не засчитываем: клиент не виноват.
		log.WithError(err).Error("ADMIN_PASSWORD_HASH не разбирается")
		return err
	}
	if !ok {
		s.attempts.fail(client)
		log.WithField("client", client).Warn("Неверный пароль администратора")
		return common.ErrWrongPassword
	}
	s.attempts.reset(client)
	return nil
}

// Grant записывает ручное событие журнала и уведомляет чат администраторов.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (ledger.Event, error) {
	identity, err := common.NormalizeIdentity(req.Identity)
	if err != nil {
		return ledger.Event{}, err
	}
	ev, err := s.recorder.Record(ctx, identity, req.Category, req.Amount, req.Subject)
	if err != nil {
		return ledger.Event{}, err
	}

	fields := map[string]any{
		"identity": identity,
		"category": ev.Category,
		"amount":   ev.Amount,
	}
	log.WithFields(log.Fields(fields)).Info("Ручное событие журнала")
	n := notify.Notice{
		Level:  notify.LevelInfo,
		Title:  "Manual grant",
		Text:   common.FormatPointsAmount(ev.Amount) + " for " + common.ShortIdentity(identity),
		Fields: fields,
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.WithError(err).Warn("Не удалось отправить уведомление о начислении")
	}
	return ev, nil
}
