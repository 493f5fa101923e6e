package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	return st
}

func TestQueriesBeforeSchema(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer st.Close()

	if _, err := st.ListOperations(0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListOperations before schema = %v, want ErrNotInitialized", err)
	}
	if _, err := st.PackageHistory("aubio"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("PackageHistory before schema = %v, want ErrNotInitialized", err)
	}
	err = st.RecordOperation(&Operation{Package: "aubio", Action: ActionInstall})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RecordOperation before schema = %v, want ErrNotInitialized", err)
	}
}

func TestRecordOperation(t *testing.T) {
	st := newTestStore(t)

	op := &Operation{Package: "aubio", Action: ActionInstall, Version: "0.4.9"}
	if err := st.RecordOperation(op); err != nil {
		t.Fatalf("RecordOperation() failed: %v", err)
	}

	if op.ID == 0 {
		t.Error("RecordOperation should set the row ID")
	}
	if op.Timestamp.IsZero() {
		t.Error("RecordOperation should default the timestamp")
	}
}

func TestListOperationsNewestFirst(t *testing.T) {
	st := newTestStore(t)

	for _, name := range []string{"a", "b", "c"} {
		if err := st.RecordOperation(&Operation{Package: name, Action: ActionInstall}); err != nil {
			t.Fatal(err)
		}
	}

	ops, err := st.ListOperations(0)
	if err != nil {
		t.Fatalf("ListOperations() failed: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	if ops[0].Package != "c" || ops[2].Package != "a" {
		t.Errorf("order = %s,%s,%s, want newest first", ops[0].Package, ops[1].Package, ops[2].Package)
	}
}

func TestListOperationsLimit(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := st.RecordOperation(&Operation{Package: "aubio", Action: ActionUpgrade}); err != nil {
			t.Fatal(err)
		}
	}

	ops, err := st.ListOperations(2)
	if err != nil {
		t.Fatalf("ListOperations() failed: %v", err)
	}
	if len(ops) != 2 {
		t.Errorf("expected 2 operations, got %d", len(ops))
	}
}

func TestPackageHistory(t *testing.T) {
	st := newTestStore(t)

	records := []*Operation{
		{Package: "aubio", Action: ActionInstall, Version: "0.4.8"},
		{Package: "libsndfile", Action: ActionInstall, Version: "1.2.2"},
		{Package: "aubio", Action: ActionUpgrade, Version: "0.4.9"},
	}
	for _, op := range records {
		if err := st.RecordOperation(op); err != nil {
			t.Fatal(err)
		}
	}

	ops, err := st.PackageHistory("aubio")
	if err != nil {
		t.Fatalf("PackageHistory() failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 aubio operations, got %d", len(ops))
	}
	if ops[0].Action != ActionUpgrade || ops[1].Action != ActionInstall {
		t.Errorf("history order = %s,%s, want newest first", ops[0].Action, ops[1].Action)
	}
	if ops[0].Version != "0.4.9" {
		t.Errorf("Version = %q, want 0.4.9", ops[0].Version)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	st := newTestStore(t)

	when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	op := &Operation{Package: "aubio", Action: ActionRemove, Timestamp: when}
	if err := st.RecordOperation(op); err != nil {
		t.Fatal(err)
	}

	ops, err := st.ListOperations(1)
	if err != nil {
		t.Fatal(err)
	}
	if !ops[0].Timestamp.Equal(when) {
		t.Errorf("Timestamp = %v, want %v", ops[0].Timestamp, when)
	}
}
