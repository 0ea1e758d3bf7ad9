package store

import (
	"context"
	"errors"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

func isPassthrough(err error) bool {
	return errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled)
}
