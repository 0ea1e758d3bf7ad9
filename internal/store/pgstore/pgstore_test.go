package pgstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestAppendEvent_New(t *testing.T) {
	mock, s := newMock(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO point_events")).
		WithArgs("ev-1", "0xabc", "spend", int64(-5), "idea-1", at).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	ev, err := s.AppendEvent(context.Background(), ledger.Event{
		ID: "ev-1", Identity: "0xabc", Category: ledger.CategorySpend, Amount: -5, Subject: "idea-1", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), ev.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendEvent_Duplicate(t *testing.T) {
	mock, s := newMock(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO point_events")).
		WithArgs("ev-1", "0xabc", "spend", int64(-5), "idea-1", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM point_events WHERE id = $1")).
		WithArgs("ev-1").
		WillReturnRows(pgxmock.NewRows([]string{"seq", "id", "identity", "category", "amount", "subject", "created_at"}).
			AddRow(int64(7), "ev-1", "0xabc", "spend", int64(-5), "idea-1", at))

	ev, err := s.AppendEvent(context.Background(), ledger.Event{
		ID: "ev-1", Identity: "0xabc", Category: ledger.CategorySpend, Amount: -5, Subject: "idea-1", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), ev.Seq)
	assert.Equal(t, at, ev.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendEvent_Unavailable(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO point_events")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("conn closed"))

	_, err := s.AppendEvent(context.Background(), ledger.Event{ID: "ev-1", Identity: "0xabc", Category: ledger.CategoryJoined, Amount: 10})
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEvents_Filter(t *testing.T) {
	mock, s := newMock(t)
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM point_events WHERE identity = $1 AND category = $2 AND seq < $3 ORDER BY seq DESC LIMIT $4")).
		WithArgs("0xabc", "nurtured", int64(10), 2).
		WillReturnRows(pgxmock.NewRows([]string{"seq", "id", "identity", "category", "amount", "subject", "created_at"}).
			AddRow(int64(9), "b", "0xabc", "nurtured", int64(1), "idea-2", at).
			AddRow(int64(4), "a", "0xabc", "nurtured", int64(1), "idea-1", at))

	events, err := s.ListEvents(context.Background(), ledger.Filter{
		Identity: "0xabc", Category: ledger.CategoryNurtured, BeforeSeq: 10, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ledger.CategoryNurtured, events[0].Category)
	assert.Equal(t, int64(4), events[1].Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryTotals(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).
		WithArgs("0xabc").
		WillReturnRows(pgxmock.NewRows([]string{"category", "sum", "count"}).
			AddRow("planted", int64(10), int64(2)).
			AddRow("spend", int64(-4), int64(1)))

	totals, err := s.CategoryTotals(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []ledger.CategoryTotal{
		{Category: ledger.CategoryPlanted, Sum: 10, Count: 2},
		{Category: ledger.CategorySpend, Sum: -4, Count: 1},
	}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitAndLock(t *testing.T) {
	mock, s := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).
		WithArgs("0xabc").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(ctx context.Context) error {
		// Вложенная транзакция присоединяется к внешней
		return s.WithTx(ctx, func(ctx context.Context) error {
			return s.Lock(ctx, "0xabc")
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_Rollback(t *testing.T) {
	mock, s := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFails(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := s.WithTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.False(t, called)
}

func TestGetAction_NotFound(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM care_actions")).
		WithArgs("0xabc", "idea-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAction(context.Background(), "0xabc", "idea-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAction(t *testing.T) {
	mock, s := newMock(t)
	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (identity, subject)")).
		WithArgs("0xabc", "idea-1", "neglect", at, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertAction(context.Background(), care.Action{
		Identity: "0xabc", Subject: "idea-1", Kind: care.KindNeglect, CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchWallet(t *testing.T) {
	mock, s := newMock(t)
	at := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wallets")).
		WithArgs("0xabc", at).
		WillReturnRows(pgxmock.NewRows([]string{"identity", "signature_count", "first_seen_at", "last_seen_at", "created"}).
			AddRow("0xabc", int64(1), at, at, true))

	w, created, err := s.TouchWallet(context.Background(), "0xabc", at)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), w.SignatureCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetIdeaStatus_Missing(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ideas SET status")).
		WithArgs("idea-x", "growing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SetIdeaStatus(context.Background(), "idea-x", "growing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveInterest(t *testing.T) {
	mock, s := newMock(t)
	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO builder_interest")).
		WithArgs("0xabc", "idea-1", "approved", at, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveInterest(context.Background(), builders.Interest{
		Identity: "0xabc", Subject: "idea-1", Status: builders.StatusApproved, CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInterest_Filter(t *testing.T) {
	mock, s := newMock(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM builder_interest WHERE subject = $1 AND status = $2 ORDER BY created_at DESC, subject, identity LIMIT $3")).
		WithArgs("idea-1", "pending", 10).
		WillReturnRows(pgxmock.NewRows([]string{"identity", "subject", "status", "created_at", "updated_at"}).
			AddRow("0xabc", "idea-1", "pending", at, at))

	list, err := s.ListInterest(context.Background(), builders.Filter{Subject: "idea-1", Status: builders.StatusPending, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, builders.StatusPending, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInterest_NotFound(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM builder_interest")).
		WithArgs("0xabc", "idea-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetInterest(context.Background(), "0xabc", "idea-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
