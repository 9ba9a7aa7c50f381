package repomanager

import (
	"context"
	"fmt"
)

// MemoryDSN selects the in-memory store.
const MemoryDSN = "memory://"

// Open returns the manager for dsn with migrations applied.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	if dsn == MemoryDSN {
		m = NewInMemoryRepositoryManager()
	} else if m, err = OpenPostgres(dsn); err != nil {
		return nil, err
	}

	if err := m.Ping(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}
