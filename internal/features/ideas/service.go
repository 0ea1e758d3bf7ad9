// Package ideas — service.go: посадка идей с наградой, чтение и фильтр.
package ideas

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// Rewarder — запись награды в журнал очков.
type Rewarder interface {
	Record(ctx context.Context, identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
}

// Service управляет идеями.
type Service struct {
	repo         Repository
	rewarder     Rewarder
	uow          store.UnitOfWork
	reward       int64 // Очки за посадку
	placeholders bool  // Показывать демо-идеи, пока живых нет
	now          func() time.Time
}

// NewService создаёт сервис идей.
func NewService(repo Repository, rewarder Rewarder, uow store.UnitOfWork, reward int64, placeholders bool) *Service {
	return &Service{
		repo:         repo,
		rewarder:     rewarder,
		uow:          uow,
		reward:       reward,
		placeholders: placeholders,
		now:          time.Now,
	}
}

// Plant сохраняет идею и начисляет автору очки за посадку в той же транзакции.
func (s *Service) Plant(ctx context.Context, author string, in PlantInput) (Idea, int64, error) {
	idea, err := s.newIdea(author, in)
	if err != nil {
		return Idea{}, 0, err
	}

	var rewarded int64
	err = store.Run(ctx, s.uow, author, func(ctx context.Context) error {
		if err := s.repo.CreateIdea(ctx, idea); err != nil {
			return err
		}
		if s.rewarder == nil || s.reward <= 0 {
			return nil
		}
		if _, err := s.rewarder.Record(ctx, author, ledger.CategoryPlanted, s.reward, idea.ID); err != nil {
			return err
		}
		rewarded = s.reward
		return nil
	})
	if err != nil {
		return Idea{}, 0, err
	}

	log.WithFields(log.Fields{
		"identity": common.ShortIdentity(author),
		"idea_id":  idea.ID,
		"reward":   rewarded,
	}).Info("Идея посажена")
	return idea, rewarded, nil
}

func (s *Service) newIdea(author string, in PlantInput) (Idea, error) {
	if author == "" {
		return Idea{}, common.ErrInvalidIdentity
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return Idea{}, fmt.Errorf("%w: title is required", common.ErrInvalidIdea)
	case utf8.RuneCountInString(title) > maxTitleLength:
		return Idea{}, fmt.Errorf("%w: title is longer than %d", common.ErrInvalidIdea, maxTitleLength)
	case utf8.RuneCountInString(desc) > maxDescriptionLength:
		return Idea{}, fmt.Errorf("%w: description is longer than %d", common.ErrInvalidIdea, maxDescriptionLength)
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.ContainsFunc(tags, func(x string) bool { return strings.EqualFold(x, t) }) {
			continue
		}
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return Idea{}, fmt.Errorf("%w: more than %d tags", common.ErrInvalidIdea, maxTags)
	}

	return Idea{
		ID:          uuid.NewString(),
		Author:      author,
		Title:       title,
		Description: desc,
		Tags:        tags,
		Status:      StatusPlanted,
		Source:      SourceLive,
		CreatedAt:   s.now().UTC(),
	}, nil
}

// Get возвращает идею. Демо-идеи находятся, только если включены.
func (s *Service) Get(ctx context.Context, id string) (Idea, error) {
	idea, err := s.repo.GetIdea(ctx, id)
	if err == nil {
		idea.Source = SourceLive
		return idea, nil
	}
	if !errors.Is(err, common.ErrNotFound) || !s.placeholders {
		return Idea{}, err
	}
	for _, p := range Placeholders() {
		if p.ID == id {
			return p, nil
		}
	}
	return Idea{}, common.ErrNotFound
}

// Ensure проверяет, что живая идея существует. На демо-идеи реагировать
// и комментировать их нельзя.
func (s *Service) Ensure(ctx context.Context, id string) error {
	_, err := s.repo.GetIdea(ctx, id)
	return err
}

// AuthorOf — автор живой идеи.
func (s *Service) AuthorOf(ctx context.Context, id string) (string, error) {
	idea, err := s.repo.GetIdea(ctx, id)
	if err != nil {
		return "", err
	}
	return idea.Author, nil
}

// List возвращает идеи по фильтру, новые первыми. Если живых идей нет
// и демо-данные включены, фильтр применяется к демо-идеям.
func (s *Service) List(ctx context.Context, f Filter) ([]Idea, error) {
	all, err := s.repo.ListIdeas(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].Source = SourceLive
	}
	if len(all) == 0 && s.placeholders {
		all = Placeholders()
	}
	return Apply(all, f), nil
}

// Apply фильтрует идеи в памяти. Порядок сохраняется.
func Apply(in []Idea, f Filter) []Idea {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Idea, 0, len(in))
	for _, idea := range in {
		if f.Status != "" && f.Status != "all" && idea.Status != f.Status {
			continue
		}
		if f.Author != "" && idea.Author != f.Author {
			continue
		}
		if f.Tag != "" && !slices.ContainsFunc(idea.Tags, func(t string) bool { return strings.EqualFold(t, f.Tag) }) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(idea.Title), query) &&
			!strings.Contains(strings.ToLower(idea.Description), query) {
			continue
		}
		out = append(out, idea)
	}
	return out
}

// SetStatus меняет стадию идеи. Менять может только автор.
func (s *Service) SetStatus(ctx context.Context, identity, id string, status Status) (Idea, error) {
	if !status.Valid() {
		return Idea{}, fmt.Errorf("%w: unknown status %q", common.ErrInvalidIdea, status)
	}
	var idea Idea
	err := store.Run(ctx, s.uow, identity, func(ctx context.Context) error {
		var err error
		idea, err = s.repo.GetIdea(ctx, id)
		if err != nil {
			return err
		}
		if idea.Author != identity {
			return common.ErrNotAuthor
		}
		if idea.Status == status {
			return nil
		}
		idea.Status = status
		return s.repo.SetIdeaStatus(ctx, id, status)
	})
	if err != nil {
		return Idea{}, err
	}
	idea.Source = SourceLive
	return idea, nil
}
