package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/anmarochka/resto-booking/internal/floorplan"
)

// A stub driver that records every statement it is asked to execute.
// Save never reads, so Query is unsupported; this is enough to check the
// SQL the repository generates without a live server.

type stmtRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *stmtRecorder) add(q string) {
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
}

func (r *stmtRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

var recorded = &stmtRecorder{}

type recordingDriver struct{}

func (recordingDriver) Open(string) (driver.Conn, error) { return recordingConn{}, nil }

type recordingConn struct{}

func (recordingConn) Prepare(q string) (driver.Stmt, error) { return recordingStmt{q: q}, nil }
func (recordingConn) Close() error                          { return nil }
func (recordingConn) Begin() (driver.Tx, error)             { return recordingTx{}, nil }

type recordingTx struct{}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type recordingStmt struct{ q string }

func (recordingStmt) Close() error  { return nil }
func (recordingStmt) NumInput() int { return -1 }

func (s recordingStmt) Exec([]driver.Value) (driver.Result, error) {
	recorded.add(s.q)
	return driver.RowsAffected(1), nil
}

func (s recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries not supported")
}

var registerRecorder sync.Once

func openRecordingDB(t *testing.T) *sql.DB {
	t.Helper()
	registerRecorder.Do(func() { sql.Register("stmt-recorder", recordingDriver{}) })
	db, err := sql.Open("stmt-recorder", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	recorded = &stmtRecorder{}
	return db
}

func TestSaveQuotesReservedRankColumn(t *testing.T) {
	db := openRecordingDB(t)
	repo := NewFloorPlanRepo(db)

	if err := repo.Save(context.Background(), "r1", floorplan.DefaultState()); err != nil {
		t.Fatalf("save: %v", err)
	}

	orderInserts := 0
	for _, q := range recorded.all() {
		if !strings.Contains(q, "INSERT INTO table_order") {
			continue
		}
		orderInserts++
		// RANK is a reserved word in MySQL 8; unquoted it is a parse
		// error and every save would fail.
		if !strings.Contains(q, "`rank`") {
			t.Fatalf("order insert must quote the rank column: %q", q)
		}
	}
	if orderInserts == 0 {
		t.Fatal("no table_order rows written")
	}
}

func TestSaveWritesSubResourcesInOrder(t *testing.T) {
	db := openRecordingDB(t)
	repo := NewFloorPlanRepo(db)

	if err := repo.Save(context.Background(), "r1", floorplan.DefaultState()); err != nil {
		t.Fatalf("save: %v", err)
	}

	first := func(substr string) int {
		for i, q := range recorded.all() {
			if strings.Contains(q, substr) {
				return i
			}
		}
		t.Fatalf("no statement touching %q", substr)
		return -1
	}

	halls := first("INSERT INTO halls")
	tables := first("INSERT INTO tables")
	order := first("INSERT INTO table_order")
	if !(halls < tables && tables < order) {
		t.Fatalf("sub-resources out of order: halls=%d tables=%d order=%d", halls, tables, order)
	}
}
