// Package chained reads through a database handle, a transaction and a row cursor. Its tests
// stub the whole path from the handle without building a double per step.
package chained

import (
	"context"
	"fmt"
)

// DB opens transactions.
type DB interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx runs queries inside a transaction.
type Tx interface {
	Query(sql string, args ...any) Rows
	Commit() error
}

// Rows is a forward-only cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
}

// CountActive counts the active accounts of tenant in one transaction.
func CountActive(ctx context.Context, db DB, tenant string) (int, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	rows := tx.Query("SELECT id FROM accounts WHERE tenant = ? AND active", tenant)

	count := 0

	for rows.Next() {
		var id int

		err := rows.Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("scan: %w", err)
		}

		count++
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return count, nil
}
