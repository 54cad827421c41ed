package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"app/internal/domain/model"
)

// 1コレクション = 1 JSONファイル。
const (
	colOrders     = "orders.json"
	colOrderItems = "order_items.json"
	colCustomers  = "customers.json"
	colAdmins     = "admins.json"
	colSessions   = "sessions.json"
	colAuditLogs  = "audit_logs.json"
)

// Store はDBが使えないときのフラットファイルバックエンド。
// プロセス内のmutexで直列化する。プロセス間のロックは持たない
// （同一ファイルを複数プロセスで書くとlast-write-winsになる）。
type Store struct {
	dir string
	mu  sync.Mutex
	loc *time.Location
	now func() time.Time
}

func New(dir string, loc *time.Location) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, loc: loc, now: time.Now}, nil
}

// コレクションの中身。Seqは採番カウンタ。
type doc[T any] struct {
	Seq  int64 `json:"seq"`
	Rows []T   `json:"rows"`
}

func load[T any](s *Store, name string) (*doc[T], error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return &doc[T]{}, nil
	}
	if err != nil {
		return nil, err
	}
	var d doc[T]
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", name, err)
	}
	return &d, nil
}

// tmpに書いてからrenameする。部分書き込みのままのファイルは残さない。
func save[T any](s *Store, name string, d *doc[T]) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// fileTx は1回のwriteAtomicの作業領域。
// 対象コレクションを遅延ロードし、メモリ上のコピーに全操作を
// 適用してから、成功した場合のみflushで書き戻す。
type fileTx struct {
	s *Store

	orders     *doc[model.Order]
	orderItems *doc[model.OrderItem]
	customers  *doc[model.Customer]
	admins     *doc[model.Admin]
	sessions   *doc[model.AdminSession]
	auditLogs  *doc[model.AuditLog]

	dirty map[string]struct{}
}

func newFileTx(s *Store) *fileTx {
	return &fileTx{s: s, dirty: map[string]struct{}{}}
}

func (t *fileTx) markDirty(col string) {
	t.dirty[col] = struct{}{}
}

func (t *fileTx) ordersDoc() (*doc[model.Order], error) {
	if t.orders == nil {
		d, err := load[model.Order](t.s, colOrders)
		if err != nil {
			return nil, err
		}
		t.orders = d
	}
	return t.orders, nil
}

func (t *fileTx) orderItemsDoc() (*doc[model.OrderItem], error) {
	if t.orderItems == nil {
		d, err := load[model.OrderItem](t.s, colOrderItems)
		if err != nil {
			return nil, err
		}
		t.orderItems = d
	}
	return t.orderItems, nil
}

func (t *fileTx) customersDoc() (*doc[model.Customer], error) {
	if t.customers == nil {
		d, err := load[model.Customer](t.s, colCustomers)
		if err != nil {
			return nil, err
		}
		t.customers = d
	}
	return t.customers, nil
}

func (t *fileTx) adminsDoc() (*doc[model.Admin], error) {
	if t.admins == nil {
		d, err := load[model.Admin](t.s, colAdmins)
		if err != nil {
			return nil, err
		}
		t.admins = d
	}
	return t.admins, nil
}

func (t *fileTx) sessionsDoc() (*doc[model.AdminSession], error) {
	if t.sessions == nil {
		d, err := load[model.AdminSession](t.s, colSessions)
		if err != nil {
			return nil, err
		}
		t.sessions = d
	}
	return t.sessions, nil
}

func (t *fileTx) auditLogsDoc() (*doc[model.AuditLog], error) {
	if t.auditLogs == nil {
		d, err := load[model.AuditLog](t.s, colAuditLogs)
		if err != nil {
			return nil, err
		}
		t.auditLogs = d
	}
	return t.auditLogs, nil
}

// 変更のあったコレクションだけを書き戻す。
func (t *fileTx) flush() error {
	if _, ok := t.dirty[colOrders]; ok {
		if err := save(t.s, colOrders, t.orders); err != nil {
			return err
		}
	}
	if _, ok := t.dirty[colOrderItems]; ok {
		if err := save(t.s, colOrderItems, t.orderItems); err != nil {
			return err
		}
	}
	if _, ok := t.dirty[colCustomers]; ok {
		if err := save(t.s, colCustomers, t.customers); err != nil {
			return err
		}
	}
	if _, ok := t.dirty[colAdmins]; ok {
		if err := save(t.s, colAdmins, t.admins); err != nil {
			return err
		}
	}
	if _, ok := t.dirty[colSessions]; ok {
		if err := save(t.s, colSessions, t.sessions); err != nil {
			return err
		}
	}
	if _, ok := t.dirty[colAuditLogs]; ok {
		if err := save(t.s, colAuditLogs, t.auditLogs); err != nil {
			return err
		}
	}
	return nil
}

// run は進行中のトランザクションがあればそれに参加し、
// 無ければ単発のread-modify-writeとして実行する。
func run(s *Store, tx *fileTx, fn func(t *fileTx) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := newFileTx(s)
	if err := fn(t); err != nil {
		return err
	}
	return t.flush()
}
