package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/passwords"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/repositories/repomanager"
)

var cheapParams = passwords.Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func newTestUserService(t *testing.T, m repomanager.RepositoryManager) *UserService {
	t.Helper()
	s := NewUserService(m, auth.NewSessions([]byte("test-secret"), time.Hour), nil, logging.Nop{})
	s.hash = func(p string) (string, error) { return passwords.HashWithParams(p, cheapParams) }
	return s
}

type constPredictor int

func (c constPredictor) Predict([common.FeatureCount]float64) int { return int(c) }

// failingManager wraps a real manager and fails every transaction.
type failingManager struct {
	repomanager.RepositoryManager
	err error
}

func (f *failingManager) InTx(context.Context, func(context.Context, dbx.DBTX) error) error {
	return f.err
}

var errBoom = errors.New("boom")
