package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/models"
)

func sessionArgs() []driver.Value {
	return anyArgs(20)
}

func TestTrainingSessionRepositoryCreateBatchCommits(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTrainingSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO training_sessions").WithArgs(sessionArgs()...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO training_sessions").WithArgs(sessionArgs()...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sessions := []models.TrainingSession{
		{Title: "Training", Date: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), StartTime: "17:00", EndTime: "18:30", TeamID: "t1", SessionType: models.SessionTraining, Active: true},
		{Title: "Training", Date: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), StartTime: "17:00", EndTime: "18:30", TeamID: "t1", SessionType: models.SessionTraining, Active: true},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), sessions))
	assert.NotEmpty(t, sessions[0].ID)
	assert.NotEqual(t, sessions[0].ID, sessions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainingSessionRepositoryCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTrainingSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO training_sessions").WithArgs(sessionArgs()...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO training_sessions").WithArgs(sessionArgs()...).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	sessions := []models.TrainingSession{{Title: "A"}, {Title: "B"}}
	err := repo.CreateBatch(context.Background(), sessions)
	assert.ErrorContains(t, err, "create training session 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainingSessionRepositoryCancel(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTrainingSessionRepository(db)

	reason := "pitch closed"
	mock.ExpectExec("UPDATE training_sessions SET cancelled = TRUE").WithArgs("s1", &reason, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE training_sessions SET cancelled = TRUE").WithArgs("s2", nil, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Cancel(context.Background(), "s1", &reason))
	assert.ErrorIs(t, repo.Cancel(context.Background(), "s2", nil), sql.ErrNoRows)
}

func TestTrainingSessionRepositoryListByTeamAndRange(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTrainingSessionRepository(db)

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM training_sessions WHERE active = TRUE AND team_id = \\$1 AND date >= \\$2 AND date <= \\$3 ORDER BY date, start_time, id LIMIT 50 OFFSET 0").
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM training_sessions").
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sessions, total, err := repo.List(context.Background(), models.TrainingSessionFilter{TeamID: "t1", From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
}
