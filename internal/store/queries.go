package store

import (
	"fmt"
	"time"
)

// RecordOperation appends one operation to the journal. The timestamp
// defaults to now when unset.
func (s *Store) RecordOperation(op *Operation) error {
	ts := op.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO operations (package, action, version, detail, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query, op.Package, op.Action, op.Version, op.Detail, ts.Format(time.RFC3339))
	if err != nil {
		return wrapUninitialized(fmt.Errorf("failed to record %s of %s: %w", op.Action, op.Package, err))
	}

	if id, err := res.LastInsertId(); err == nil {
		op.ID = id
	}
	op.Timestamp = ts
	return nil
}

// ListOperations returns the newest limit operations, most recent first.
// limit <= 0 returns everything.
func (s *Store) ListOperations(limit int) ([]*Operation, error) {
	query := `
		SELECT id, package, action, version, detail, timestamp
		FROM operations
		ORDER BY id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapUninitialized(fmt.Errorf("failed to list operations: %w", err))
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var ts string
		if err := rows.Scan(&op.ID, &op.Package, &op.Action, &op.Version, &op.Detail, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for operation %d: %w", op.ID, err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}

// PackageHistory returns every journaled operation for one formula, most
// recent first.
func (s *Store) PackageHistory(name string) ([]*Operation, error) {
	query := `
		SELECT id, package, action, version, detail, timestamp
		FROM operations
		WHERE package = ?
		ORDER BY id DESC
	`

	rows, err := s.db.Query(query, name)
	if err != nil {
		return nil, wrapUninitialized(fmt.Errorf("failed to query history for %s: %w", name, err))
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var ts string
		if err := rows.Scan(&op.ID, &op.Package, &op.Action, &op.Version, &op.Detail, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for operation %d: %w", op.ID, err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}
