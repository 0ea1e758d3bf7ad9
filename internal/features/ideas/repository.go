package ideas

import "context"

// Repository — хранилище идей.
//
// GetIdea возвращает common.ErrNotFound, если идеи нет.
// ListIdeas отдаёт все идеи, новые первыми.
type Repository interface {
	CreateIdea(ctx context.Context, idea Idea) error
	GetIdea(ctx context.Context, id string) (Idea, error)
	ListIdeas(ctx context.Context) ([]Idea, error)
	SetIdeaStatus(ctx context.Context, id string, status Status) error
}
