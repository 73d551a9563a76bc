package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/models"
)

func TestGuardianRepositoryListContactable(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGuardianRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "athlete_id", "first_name", "last_name", "phone", "email", "guardian_type", "active", "created_at"}).
		AddRow("g1", "a1", "Maria", "Bianchi", "333", "maria@example.com", "mother", true, now).
		AddRow("g2", "a1", "Paolo", "Bianchi", "334", "paolo@example.com", "father", true, now)
	mock.ExpectQuery("FROM guardians WHERE athlete_id = \\$1 AND active = TRUE").
		WithArgs("a1").
		WillReturnRows(rows)

	guardians, err := repo.ListContactable(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, guardians, 2)
	require.NotNil(t, guardians[0].Email)
	assert.Equal(t, "maria@example.com", *guardians[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryListContactableError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGuardianRepository(db)

	mock.ExpectQuery("FROM guardians").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListContactable(context.Background(), "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list guardians")
}

func TestGuardianRepositoryListByAthleteIncludesInactive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGuardianRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "athlete_id", "first_name", "last_name", "phone", "email", "guardian_type", "active", "created_at"}).
		AddRow("g1", "a1", "Maria", "Bianchi", "333", nil, "mother", false, now)
	mock.ExpectQuery("FROM guardians WHERE athlete_id = \\$1 ORDER BY created_at").WithArgs("a1").WillReturnRows(rows)

	guardians, err := repo.ListByAthlete(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, guardians, 1)
	assert.False(t, guardians[0].Active)
	assert.Nil(t, guardians[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGuardianRepository(db)

	mock.ExpectExec("INSERT INTO guardians").WithArgs(anyArgs(9)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE guardians SET first_name").WithArgs(anyArgs(7)...).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE guardians SET first_name").WithArgs(anyArgs(7)...).WillReturnResult(sqlmock.NewResult(0, 0))

	guardian := &models.Guardian{AthleteID: "a1", FirstName: "Maria", LastName: "Bianchi", Phone: "333", GuardianType: "mother", Active: true}
	require.NoError(t, repo.Create(context.Background(), guardian))
	assert.NotEmpty(t, guardian.ID)

	require.NoError(t, repo.Update(context.Background(), guardian))
	assert.ErrorIs(t, repo.Update(context.Background(), &models.Guardian{ID: "ghost"}), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardianRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGuardianRepository(db)

	mock.ExpectQuery("FROM guardians WHERE id = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
