package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

var contactCols = []string{"id", "name", "email", "subject", "message", "status", "created_at", "resolved_at"}

func TestContactRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepo(db)
	now := time.Now().UTC()
	m := &domain.ContactMessage{
		ID: "c-1", Name: "Ana", Email: "ana@x.io", Subject: "Hi", Message: "Hello",
		Status: domain.ContactNew, CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO contact_messages").
		WithArgs(m.ID, m.Name, m.Email, m.Subject, m.Message, "new", m.CreatedAt, m.ResolvedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepo(db)
	now := time.Now().UTC()

	t.Run("maps resolved_at", func(t *testing.T) {
		rows := sqlmock.NewRows(contactCols).
			AddRow("c-1", "Ana", "ana@x.io", "Hi", "Hello", "resolved", now, now)
		mock.ExpectQuery("SELECT (.+) FROM contact_messages WHERE id =").
			WithArgs("c-1").
			WillReturnRows(rows)

		m, err := repo.GetByID(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ContactResolved, m.Status)
		require.NotNil(t, m.ResolvedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WithArgs("none").WillReturnError(sql.ErrNoRows)

		m, err := repo.GetByID(context.Background(), "none")
		assert.Nil(t, m)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepo(db)
	now := time.Now().UTC()
	m := &domain.ContactMessage{ID: "c-1", Status: domain.ContactResolved, ResolvedAt: &now}

	mock.ExpectExec("UPDATE contact_messages").
		WithArgs("c-1", "resolved", m.ResolvedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(context.Background(), m))

	mock.ExpectExec("UPDATE contact_messages").
		WithArgs("c-1", "resolved", m.ResolvedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Update(context.Background(), m)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepo(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(contactCols).
		AddRow("c-2", "Bo", "bo@x.io", "B", "b", "new", now, nil).
		AddRow("c-1", "Ana", "ana@x.io", "A", "a", "new", now.Add(-time.Hour), nil)

	mock.ExpectQuery("SELECT (.+) FROM contact_messages").
		WithArgs("new", 200).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), domain.ContactNew, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c-2", out[0].ID)
	assert.Nil(t, out[0].ResolvedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
