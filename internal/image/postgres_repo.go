package image

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Save(ctx context.Context, img *Image) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.QueryRow(timeoutCtx,
		`INSERT INTO images (name, url, public_id) VALUES ($1, $2, $3) RETURNING id`,
		img.Name, img.URL, img.PublicID,
	).Scan(&img.ID)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, `DELETE FROM images WHERE id = $1`, id)
	return err
}
