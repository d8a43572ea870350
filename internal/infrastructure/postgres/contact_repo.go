package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, insertContactSQL,
		m.ID, m.Name, m.Email, m.Subject, m.Message, string(m.Status), m.CreatedAt, m.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRowContext(ctx, getContactSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("message not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ContactRepo) Update(ctx context.Context, m *domain.ContactMessage) error {
	res, err := r.db.ExecContext(ctx, updateContactSQL, m.ID, string(m.Status), m.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update contact message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("message not found")
	}
	return nil
}

func (r *ContactRepo) List(ctx context.Context, status domain.ContactStatus, limit int) ([]*domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx, listContactSQL, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*domain.ContactMessage, error) {
	var (
		m        domain.ContactMessage
		status   string
		resolved sql.NullTime
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &status, &m.CreatedAt, &resolved); err != nil {
		return nil, err
	}
	m.Status = domain.ContactStatus(status)
	m.CreatedAt = m.CreatedAt.UTC()
	if resolved.Valid {
		t := resolved.Time.UTC()
		m.ResolvedAt = &t
	}
	return &m, nil
}
