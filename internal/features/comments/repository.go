package comments

import (
	"context"
	"time"
)

// Repository — хранилище комментариев.
//
// ListComments отдаёт комментарии к предмету, старые первыми.
// CountByIdentity считает комментарии идентичности по всем предметам.
// ListUnpaid отдаёт комментарии старше olderThan, для которых в журнале
// нет события DebitEventID.
type Repository interface {
	CreateComment(ctx context.Context, c Comment) error
	ListComments(ctx context.Context, subject string) ([]Comment, error)
	CountByIdentity(ctx context.Context, identity string) (int, error)
	ListUnpaid(ctx context.Context, olderThan time.Time, limit int) ([]Comment, error)
}
