package audit

import (
	"context"
	"log"
	"sync"

	"app/internal/domain/model"
	"app/internal/repository"
)

// Logger は監査ログをチャネル経由で非同期に書く。
// 書き込み失敗・バッファ溢れはログに出すだけで、
// 元の操作には一切伝播しない。
type Logger struct {
	ch   chan model.AuditLog
	repo repository.AuditLogRepository

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewLogger(repo repository.AuditLogRepository, buffer int) *Logger {
	if buffer <= 0 {
		buffer = 64
	}
	l := &Logger{
		ch:   make(chan model.AuditLog, buffer),
		repo: repo,
	}
	l.wg.Add(1)
	go l.drain()
	return l
}

func (l *Logger) drain() {
	defer l.wg.Done()
	for e := range l.ch {
		if err := l.repo.Create(context.Background(), e); err != nil {
			log.Printf("audit: write failed: %v", err)
		}
	}
}

// Record はブロックしない。バッファが一杯なら落とす。
func (l *Logger) Record(e model.AuditLog) {
	select {
	case l.ch <- e:
	default:
		log.Printf("audit: buffer full, entry dropped (action=%s resource=%s/%d)",
			e.Action, e.ResourceType, e.ResourceID)
	}
}

// Close は残りのエントリを書き切ってから戻る。
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		close(l.ch)
	})
	l.wg.Wait()
}
