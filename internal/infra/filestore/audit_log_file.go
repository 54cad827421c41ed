package filestore

import (
	"context"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AuditLogFileRepository struct {
	s *Store
}

func NewAuditLogFileRepository(s *Store) *AuditLogFileRepository {
	return &AuditLogFileRepository{s: s}
}

func (r *AuditLogFileRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return run(r.s, nil, func(t *fileTx) error {
		d, err := t.auditLogsDoc()
		if err != nil {
			return err
		}
		d.Seq++
		entry.ID = d.Seq
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = r.s.now()
		}
		d.Rows = append(d.Rows, entry)
		t.markDirty(colAuditLogs)
		return nil
	})
}

func (r *AuditLogFileRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	var rows []model.AuditLog
	err := run(r.s, nil, func(t *fileTx) error {
		d, err := t.auditLogsDoc()
		if err != nil {
			return err
		}
		for _, e := range d.Rows {
			if filter.ActorAdminID != nil && e.ActorAdminID != *filter.ActorAdminID {
				continue
			}
			if filter.Action != nil && e.Action != *filter.Action {
				continue
			}
			if filter.ResourceType != nil && e.ResourceType != *filter.ResourceType {
				continue
			}
			if filter.ResourceID != nil && e.ResourceID != *filter.ResourceID {
				continue
			}
			if filter.CreatedFrom != nil && e.CreatedAt.Before(*filter.CreatedFrom) {
				continue
			}
			if filter.CreatedTo != nil && e.CreatedAt.After(*filter.CreatedTo) {
				continue
			}
			rows = append(rows, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	//新しい順
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []model.AuditLog{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}
