package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"paw-connect/internal/domain/pets"
	"paw-connect/internal/domain/profiles"
	"paw-connect/internal/domain/services"
	"paw-connect/internal/domain/specializations"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestMigrate_AppliesFilesAndSeed(t *testing.T) {
	db, mock := newMock(t)

	for _, table := range []string{"profiles", "specializations", "social_links", "pets", "services"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, s := range specializations.Seed() {
		mock.ExpectExec("INSERT INTO specializations").
			WithArgs(s.ID, s.Title, s.ShortDescription).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesRepo_CreateDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profiles (id) VALUES ($1)`)).
		WithArgs("U1").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), "U1")
	assert.ErrorIs(t, err, profiles.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesRepo_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	mock.ExpectQuery("SELECT id, description, about_me, location, picture").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, profiles.ErrNotFound)
}

func TestProfilesRepo_GetByIDJoins(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	mock.ExpectQuery("FROM profiles").
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "about_me", "location", "picture"}).
			AddRow("U1", "", "loves dogs", "Kraków", ""))
	mock.ExpectQuery("FROM profile_specialization").
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"specialization_id"}).AddRow("aggression"))
	mock.ExpectQuery("FROM social_links").
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "platform", "url"}).AddRow(int64(7), "instagram", "https://instagram.com/u1"))

	p, err := repo.GetByID(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "loves dogs", p.AboutMe)
	assert.Equal(t, []string{"aggression"}, p.Specializations)
	require.Len(t, p.SocialLinks, 1)
	assert.Equal(t, int64(7), p.SocialLinks[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesRepo_UpdateClearsThenExtendsInOneTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE profiles").
		WithArgs("U1", "", "loves dogs", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM profile_specialization").
		WithArgs("U1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO profile_specialization").
		WithArgs("U1", "socialization").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ids := []string{"socialization"}
	err := repo.Update(context.Background(), profiles.Profile{ID: "U1", AboutMe: "loves dogs"}, &ids)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesRepo_UpdateSkipsSpecializationDeletedMeanwhile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	insert := regexp.QuoteMeta(`INSERT INTO profile_specialization (profile_id, specialization_id) SELECT $1, id FROM specializations WHERE id = $2`)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM profile_specialization").WithArgs("U1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insert).WithArgs("U1", "aggression").WillReturnResult(sqlmock.NewResult(0, 1))
	// ya no está en el vocabulario: el SELECT no devuelve filas y no hay violación de FK
	mock.ExpectExec(insert).WithArgs("U1", "anxiety").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ids := []string{"aggression", "anxiety"}
	err := repo.Update(context.Background(), profiles.Profile{ID: "U1"}, &ids)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesRepo_UpdateMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfilesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE profiles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), profiles.Profile{ID: "U1"}, nil)
	assert.ErrorIs(t, err, profiles.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_DeleteMissingIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec("DELETE FROM pets").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), pets.ErrNotFound)
}

func TestPetsRepo_GetByIDMapsNullables(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	dob := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	cols := []string{"id", "owner_id", "name", "species", "breed", "gender", "date_of_birth", "weight", "description", "created_at", "updated_at"}
	mock.ExpectQuery("FROM pets").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "U1", "Luna", "dog", "", "female", dob, nil, "", now, now))

	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, p.DateOfBirth)
	assert.True(t, p.DateOfBirth.Equal(dob))
	assert.Nil(t, p.Weight)
}

func TestServicesRepo_RoundTripsPriceAndTimes(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicesRepo(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO services").
		WithArgs("s1", "U1", "Spacer", "", "49.99", "[1,3]", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), services.Service{
		ID: "s1", ProfileID: "U1", Name: "Spacer",
		Price: decimal.RequireFromString("49.99"), Times: []int{1, 3},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	cols := []string{"id", "profile_id", "name", "description", "price", "times", "created_at", "updated_at"}
	mock.ExpectQuery("FROM services").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "U1", "Spacer", "", "49.99", []byte("[1,3]"), now, now))

	s, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "49.99", s.Price.StringFixed(2))
	assert.Equal(t, []int{1, 3}, s.Times)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServicesRepo_DeleteMissingIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServicesRepo(db)

	mock.ExpectExec("DELETE FROM services").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "s1"), services.ErrNotFound)
}
