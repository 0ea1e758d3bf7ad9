// Package comments — service.go: публикация через гейт, награда автору идеи
// и сверка списаний.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/gate"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
)

// DefaultMaxLength — максимальная длина комментария в символах.
const DefaultMaxLength = 2000

// reconcileBatch — сколько комментариев сверяется за один проход.
const reconcileBatch = 100

// Gate — платное действие через гейт.
type Gate interface {
	Perform(ctx context.Context, identity, subject string, action gate.Action, then ...gate.Action) (gate.Outcome, error)
}

// Ledger — то, что сервису нужно от журнала очков.
type Ledger interface {
	Record(ctx context.Context, identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
	Append(ctx context.Context, ev ledger.Event) (ledger.Event, error)
	HasEvent(ctx context.Context, identity string, category ledger.Category, subject string) (bool, error)
}

// Authors находит автора идеи. common.ErrNotFound — идеи нет.
type Authors interface {
	AuthorOf(ctx context.Context, id string) (string, error)
}

// Options — настройки сервиса.
type Options struct {
	MaxLength     int   // <= 0 — DefaultMaxLength
	AuthorReward  int64 // Очки автору идеи за чужой комментарий
	ReconcileWait time.Duration
}

// Service управляет комментариями.
type Service struct {
	repo     Repository
	gate     Gate
	ledger   Ledger
	authors  Authors
	notifier notify.Notifier
	opts     Options
	now      func() time.Time
}

// NewService создаёт сервис комментариев.
func NewService(repo Repository, g Gate, l Ledger, authors Authors, notifier notify.Notifier, opts Options) *Service {
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		repo:     repo,
		gate:     g,
		ledger:   l,
		authors:  authors,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// Post публикует комментарий, если хватает очков.
//
// Отказ гейта — не ошибка: PostResult.Decision.Allowed == false.
// Ошибка с common.ErrInconsistentDebit означает, что комментарий
// сохранён, но списание или награда автору не записались;
// PostResult.Comment заполнен, повторять Post нельзя.
func (s *Service) Post(ctx context.Context, identity, subject, body string) (PostResult, error) {
	body = strings.TrimSpace(body)
	switch {
	case identity == "":
		return PostResult{}, common.ErrInvalidIdentity
	case body == "":
		return PostResult{}, common.ErrEmptyComment
	case utf8.RuneCountInString(body) > s.opts.MaxLength:
		return PostResult{}, fmt.Errorf("%w: max %d characters", common.ErrCommentTooLong, s.opts.MaxLength)
	}

	author, err := s.authors.AuthorOf(ctx, subject)
	if err != nil {
		return PostResult{}, err
	}

	var res PostResult
	create := func(ctx context.Context, debit ledger.Event) error {
		c := Comment{
			ID:           uuid.NewString(),
			Identity:     identity,
			Subject:      subject,
			Body:         body,
			Cost:         -debit.Amount,
			DebitEventID: debit.ID,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.repo.CreateComment(ctx, c); err != nil {
			return err
		}
		res.Comment = c
		return nil
	}
	// Награда автору — после списания.
	reward := func(ctx context.Context, _ ledger.Event) error {
		n, err := s.rewardAuthor(ctx, author, res.Comment)
		res.Rewarded = n
		return err
	}
	outcome, err := s.gate.Perform(ctx, identity, subject, create, reward)
	res.Decision = outcome.Decision
	if err != nil {
		if errors.Is(err, common.ErrInconsistentDebit) {
			return res, err
		}
		return PostResult{}, err
	}
	if !outcome.Decision.Allowed {
		return PostResult{Decision: outcome.Decision}, nil
	}

	log.WithFields(log.Fields{
		"identity":   common.ShortIdentity(identity),
		"subject":    subject,
		"comment_id": res.Comment.ID,
		"cost":       res.Comment.Cost,
	}).Info("Комментарий опубликован")
	return res, nil
}

// rewardAuthor начисляет автору идеи очки за чужой комментарий.
// Повторный вызов для того же комментария ничего не начисляет.
func (s *Service) rewardAuthor(ctx context.Context, author string, c Comment) (int64, error) {
	if author == "" || author == c.Identity || s.opts.AuthorReward <= 0 {
		return 0, nil
	}
	done, err := s.ledger.HasEvent(ctx, author, ledger.CategoryCommented, c.ID)
	if err != nil || done {
		return 0, err
	}
	if _, err := s.ledger.Record(ctx, author, ledger.CategoryCommented, s.opts.AuthorReward, c.ID); err != nil {
		return 0, err
	}
	return s.opts.AuthorReward, nil
}

// List — комментарии к идее, старые первыми.
func (s *Service) List(ctx context.Context, subject string) ([]Comment, error) {
	return s.repo.ListComments(ctx, subject)
}

// Reconcile находит комментарии без записанного списания, дописывает
// списание с тем же ID события и недостающую награду автору идеи.
// Повторный запуск безопасен. Каждое найденное расхождение уходит алертом.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	unpaid, err := s.repo.ListUnpaid(ctx, s.now().Add(-s.opts.ReconcileWait).UTC(), reconcileBatch)
	if err != nil {
		return ReconcileReport{}, err
	}

	report := ReconcileReport{Checked: len(unpaid)}
	for _, c := range unpaid {
		entry := log.WithFields(log.Fields{
			"comment_id": c.ID,
			"identity":   c.Identity,
			"debit_id":   c.DebitEventID,
			"cost":       c.Cost,
		})

		if c.Cost <= 0 || c.DebitEventID == "" {
			entry.Warn("Комментарий без цены, пропускаем")
			report.Failed++
			continue
		}
		_, err := s.ledger.Append(ctx, ledger.Event{
			ID:        c.DebitEventID,
			Identity:  c.Identity,
			Category:  ledger.CategorySpend,
			Amount:    -c.Cost,
			Subject:   c.Subject,
			CreatedAt: c.CreatedAt,
		})
		if err != nil {
			entry.WithError(err).Error("Сверка: не удалось дописать списание")
			report.Failed++
			continue
		}
		entry.Warn("Сверка: списание дописано")
		report.Repaired++

		author, err := s.authors.AuthorOf(ctx, c.Subject)
		if err != nil {
			entry.WithError(err).Warn("Сверка: автор идеи не найден, награду пропускаем")
			continue
		}
		n, err := s.rewardAuthor(ctx, author, c)
		if err != nil {
			entry.WithError(err).Error("Сверка: не удалось начислить награду автору")
			report.Failed++
			continue
		}
		if n > 0 {
			report.Rewarded++
		}
	}

	if report.Repaired > 0 || report.Failed > 0 {
		n := notify.Notice{
			Level: notify.LevelAlert,
			Title: "Comment debit reconciliation",
			Text:  fmt.Sprintf("%d comments without a debit, %d repaired, %d failed", report.Checked, report.Repaired, report.Failed),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			log.WithError(err).Warn("Не удалось отправить алерт сверки")
		}
	}
	return report, nil
}
