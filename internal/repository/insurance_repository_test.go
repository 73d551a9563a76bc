package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/models"
)

func TestInsuranceRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewInsuranceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "athlete_id", "athlete_name", "policy_number", "provider", "insurance_type", "start_date", "end_date", "coverage_amount", "notes", "active", "created_at"}).
		AddRow("i1", "a1", "Giulia Verdi", "POL-1", "Allianz", "sports", now.AddDate(-1, 0, 0), now, 50000.0, nil, true, now)
	mock.ExpectQuery("FROM insurances i JOIN athletes a ON a.id = i.athlete_id\\s+WHERE i.active = TRUE ORDER BY i.end_date").WillReturnRows(rows)

	policies, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, models.InsuranceSports, policies[0].InsuranceType)
	require.NotNil(t, policies[0].CoverageAmount)
	assert.InDelta(t, 50000.0, *policies[0].CoverageAmount, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsuranceRepositoryListByAthlete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewInsuranceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "athlete_id", "athlete_name", "policy_number", "provider", "insurance_type", "start_date", "end_date", "coverage_amount", "notes", "active", "created_at"}).
		AddRow("i2", "a1", "Giulia Verdi", "POL-2", "Generali", "accident", now, now.AddDate(1, 0, 0), nil, nil, true, now).
		AddRow("i1", "a1", "Giulia Verdi", "POL-1", "Allianz", "sports", now.AddDate(-1, 0, 0), now, nil, nil, false, now)
	mock.ExpectQuery("WHERE i.athlete_id = \\$1 ORDER BY i.end_date DESC").WithArgs("a1").WillReturnRows(rows)

	policies, err := repo.ListByAthlete(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, "POL-2", policies[0].PolicyNumber)
	assert.False(t, policies[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsuranceRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewInsuranceRepository(db)

	mock.ExpectQuery("WHERE i.id = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsuranceRepositoryCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewInsuranceRepository(db)

	mock.ExpectExec("INSERT INTO insurances").WithArgs(anyArgs(11)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE insurances SET policy_number").WithArgs(anyArgs(9)...).WillReturnResult(sqlmock.NewResult(0, 0))

	policy := &models.Insurance{AthleteID: "a1", PolicyNumber: "POL-3", Provider: "Allianz", InsuranceType: models.InsuranceSports, Active: true}
	require.NoError(t, repo.Create(context.Background(), policy))
	assert.NotEmpty(t, policy.ID)
	assert.False(t, policy.CreatedAt.IsZero())

	assert.ErrorIs(t, repo.Update(context.Background(), policy), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
