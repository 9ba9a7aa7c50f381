package predictions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Prediction) error {

	query :=
		`INSERT INTO predictions (local_id, user_id, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 `

	f := p.Features
	_, err := r.db.ExecContext(ctx, query,
		p.LocalID, p.UserID, f[0], f[1], f[2], f[3], f[4], f[5], f[6], f[7], f[8], f[9], p.Result, p.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Prediction, error) {

	query :=
		`SELECT local_id, user_id, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, result, created_at
		 FROM predictions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, local_id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Prediction, 0)

	for rows.Next() {
		p := &models.Prediction{}
		f := &p.Features
		if err := rows.Scan(&p.LocalID, &p.UserID,
			&f[0], &f[1], &f[2], &f[3], &f[4], &f[5], &f[6], &f[7], &f[8], &f[9],
			&p.Result, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {

	query := `DELETE FROM predictions WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
