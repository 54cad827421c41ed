package filestore

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SessionFileRepository struct {
	s *Store
}

func NewSessionFileRepository(s *Store) *SessionFileRepository {
	return &SessionFileRepository{s: s}
}

func (r *SessionFileRepository) Create(ctx context.Context, session *model.AdminSession) error {
	return run(r.s, nil, func(t *fileTx) error {
		d, err := t.sessionsDoc()
		if err != nil {
			return err
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = r.s.now()
		}
		d.Rows = append(d.Rows, *session)
		t.markDirty(colSessions)
		return nil
	})
}

func (r *SessionFileRepository) FindByToken(ctx context.Context, token string) (model.AdminSession, error) {
	var out model.AdminSession
	err := run(r.s, nil, func(t *fileTx) error {
		d, err := t.sessionsDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Token == token {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *SessionFileRepository) Extend(ctx context.Context, token string, until time.Time) error {
	return run(r.s, nil, func(t *fileTx) error {
		d, err := t.sessionsDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Token == token {
				d.Rows[i].ExpiresAt = until
				t.markDirty(colSessions)
				return nil
			}
		}
		return repo.ErrNotFound
	})
}

func (r *SessionFileRepository) Delete(ctx context.Context, token string) error {
	return run(r.s, nil, func(t *fileTx) error {
		d, err := t.sessionsDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Token == token {
				d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
				t.markDirty(colSessions)
				return nil
			}
		}
		return nil
	})
}
