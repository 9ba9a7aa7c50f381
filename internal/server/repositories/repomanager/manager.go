package repomanager

import (
	"context"

	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/server/repositories/predictions"
	"github.com/dmitrijs2005/severity/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, and owns the storage lifecycle.
//
//	err := m.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
//	    seq, err := m.Users(tx).NextPredictionSeq(ctx, uid)
//	    ...
//	})
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle.
	Conn() dbx.DBTX
	// InTx runs fn atomically: all writes made through repositories bound
	// to tx commit together or not at all.
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Predictions(db dbx.DBTX) predictions.Repository
	Ping(ctx context.Context) error
	Close() error
}
