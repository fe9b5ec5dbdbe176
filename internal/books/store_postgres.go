package books

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghai/bookly/internal/platform/dberr"
)

const bookColumns = `uid, title, author, publisher, published_date, page_count, language, slug, user_uid, created_at, updated_at`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Book, int, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	const countQuery = `SELECT count(*) FROM books`

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Books")
	}

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Books")
	}
	defer rows.Close()

	var result []*Book
	for rows.Next() {
		book := &Book{}
		if err := scanBook(rows.Scan, book); err != nil {
			return nil, 0, dberr.Wrap(err, "Book")
		}
		result = append(result, book)
	}

	return result, total, nil
}

func (repository *PostgresRepository) ListByUser(context context.Context, userUID string, limit, offset int) ([]*Book, int, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_uid = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	const countQuery = `SELECT count(*) FROM books WHERE user_uid = $1`

	var total int
	if err := repository.db.QueryRow(context, countQuery, userUID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Books")
	}

	rows, err := repository.db.Query(context, query, userUID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Books")
	}
	defer rows.Close()

	var result []*Book
	for rows.Next() {
		book := &Book{}
		if err := scanBook(rows.Scan, book); err != nil {
			return nil, 0, dberr.Wrap(err, "Book")
		}
		result = append(result, book)
	}

	return result, total, nil
}

func (repository *PostgresRepository) GetByUID(context context.Context, uid string) (*Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE uid = $1`

	book := &Book{}
	row := repository.db.QueryRow(context, query, uid)
	if err := scanBook(row.Scan, book); err != nil {
		return nil, dberr.Wrap(err, "Book")
	}

	return book, nil
}

func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	const query = `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		book.UID, book.Title, book.Author, book.Publisher, book.PublishedDate,
		book.PageCount, book.Language, book.Slug, book.UserUID,
		book.CreatedAt, book.UpdatedAt,
	)
	return dberr.Wrap(err, "Book")
}

func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, published_date = $5,
		    page_count = $6, language = $7, slug = $8, updated_at = $9
		WHERE uid = $1
		RETURNING updated_at`

	book.UpdatedAt = time.Now()
	err := repository.db.QueryRow(context, query,
		book.UID, book.Title, book.Author, book.Publisher, book.PublishedDate,
		book.PageCount, book.Language, book.Slug, book.UpdatedAt,
	).Scan(&book.UpdatedAt)

	return dberr.Wrap(err, "Book")
}

func (repository *PostgresRepository) Delete(context context.Context, uid string) error {
	const query = `DELETE FROM books WHERE uid = $1`

	cmd, err := repository.db.Exec(context, query, uid)
	if err != nil {
		return dberr.Wrap(err, "Book")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// scanBook hydrates one Book from a row scanner.
func scanBook(scan func(...any) error, book *Book) error {
	return scan(
		&book.UID, &book.Title, &book.Author, &book.Publisher, &book.PublishedDate,
		&book.PageCount, &book.Language, &book.Slug, &book.UserUID,
		&book.CreatedAt, &book.UpdatedAt,
	)
}
