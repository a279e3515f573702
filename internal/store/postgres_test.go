package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "špatně spím", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "špatně spím")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, user_message, reply_text, status, result, usage, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	reply := "zkuste NOHEPA"
	rows := pgxmock.NewRows([]string{"id", "user_message", "reply_text", "status", "result", "usage", "created_at", "updated_at"}).
		AddRow("run-1", "špatně spím", &reply, model.RunStatusComplete,
			[]byte(`{"products":[{"product_code":"918","product_name":"NOHEPA esenciální olej","source":"screening"}],"aloe_recommended":false,"merkaba_recommended":false}`),
			[]byte(`{"input_tokens":300,"output_tokens":30}`),
			now, now)

	mock.ExpectQuery(`SELECT id, user_message, reply_text, status, result, usage, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "zkuste NOHEPA", run.ReplyText)
	assert.Equal(t, 300, run.Usage.InputTokens)
	require.NotNil(t, run.Result)
	require.Len(t, run.Result.Products, 1)
	assert.Equal(t, "918", run.Result.Products[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET result`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "odpověď", "complete", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", &model.RecommendationSet{}, model.TokenUsage{}, "odpověď")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET reply_text`).
		WithArgs("oops", "failed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.FailRun(context.Background(), "run-1", "oops"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_StatusFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_message", "reply_text", "status", "result", "usage", "created_at", "updated_at"}).
		AddRow("run-1", "zpráva", (*string)(nil), model.RunStatusFailed, []byte(nil), []byte(nil), now, now)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE 1=1 AND status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("failed", 50).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusFailed, Limit: 50})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Nil(t, runs[0].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
