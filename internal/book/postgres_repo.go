package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/image"
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

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	var imageID *int64
	if b.Image != nil {
		imageID = &b.Image.ID
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx,
		`INSERT INTO books (title, author, pages, price, image_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		b.Title, b.Author, b.Pages, b.Price, imageID,
	).Scan(&b.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE books SET title = $1, author = $2, pages = $3, price = $4 WHERE id = $5`,
		b.Title, b.Author, b.Pages, b.Price, b.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SetImage(ctx context.Context, bookID int64, imageID *int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE books SET image_id = $1 WHERE id = $2`, imageID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		b        Book
		imgID    *int64
		imgName  *string
		imgURL   *string
		publicID *string
	)
	err := r.db.QueryRow(timeoutCtx, `
		SELECT b.id, b.title, b.author, b.pages, b.price,
		       i.id, i.name, i.url, i.public_id
		FROM books b
		LEFT JOIN images i ON i.id = b.image_id
		WHERE b.id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Pages, &b.Price, &imgID, &imgName, &imgURL, &publicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	if imgID != nil {
		b.Image = &image.Image{ID: *imgID, Name: *imgName, URL: *imgURL, PublicID: *publicID}
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Summary, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR b.author ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books b %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[q.SortBy]
	if !ok {
		sortCol = "b.title"
	}
	order := "ASC"
	if q.Desc {
		order = "DESC"
	}

	dataSQL := fmt.Sprintf(`
		SELECT b.id, b.title, b.author, b.pages, b.price, i.url
		FROM books b
		LEFT JOIN images i ON i.id = b.image_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Size, q.Page*q.Size)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Pages, &s.Price, &s.ImageURL); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
