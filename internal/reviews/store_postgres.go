package reviews

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghai/bookly/internal/platform/dberr"
)

const reviewColumns = `uid, rating, review_text, user_uid, book_uid, created_at, updated_at`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByBook(context context.Context, bookUID string, limit, offset int) ([]*Review, int, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE book_uid = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	const countQuery = `SELECT count(*) FROM reviews WHERE book_uid = $1`

	var total int
	if err := repository.db.QueryRow(context, countQuery, bookUID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Reviews")
	}

	rows, err := repository.db.Query(context, query, bookUID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Reviews")
	}
	defer rows.Close()

	var result []*Review
	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(
			&review.UID, &review.Rating, &review.ReviewText,
			&review.UserUID, &review.BookUID,
			&review.CreatedAt, &review.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "Review")
		}
		result = append(result, review)
	}

	return result, total, nil
}

func (repository *PostgresRepository) GetByUID(context context.Context, uid string) (*Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE uid = $1`

	review := &Review{}
	err := repository.db.QueryRow(context, query, uid).Scan(
		&review.UID, &review.Rating, &review.ReviewText,
		&review.UserUID, &review.BookUID,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}

	return review, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	const query = `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		review.UID, review.Rating, review.ReviewText,
		review.UserUID, review.BookUID,
		review.CreatedAt, review.UpdatedAt,
	)
	return dberr.Wrap(err, "Review")
}

func (repository *PostgresRepository) Delete(context context.Context, uid string) error {
	const query = `DELETE FROM reviews WHERE uid = $1`

	cmd, err := repository.db.Exec(context, query, uid)
	if err != nil {
		return dberr.Wrap(err, "Review")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
