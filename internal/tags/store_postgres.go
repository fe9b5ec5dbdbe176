package tags

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghai/bookly/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	const query = `SELECT uid, name, slug, created_at FROM tags ORDER BY name ASC`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Tags")
	}
	defer rows.Close()

	return collectTags(rows.Next, rows.Scan)
}

func (repository *PostgresRepository) GetByUID(context context.Context, uid string) (*Tag, error) {
	const query = `SELECT uid, name, slug, created_at FROM tags WHERE uid = $1`

	tag := &Tag{}
	err := repository.db.QueryRow(context, query, uid).Scan(&tag.UID, &tag.Name, &tag.Slug, &tag.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return tag, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Tag, error) {
	const query = `SELECT uid, name, slug, created_at FROM tags WHERE slug = $1`

	tag := &Tag{}
	err := repository.db.QueryRow(context, query, slug).Scan(&tag.UID, &tag.Name, &tag.Slug, &tag.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return tag, nil
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	const query = `
		INSERT INTO tags (uid, name, slug, created_at)
		VALUES ($1, $2, $3, $4)`

	tag.CreatedAt = time.Now()
	_, err := repository.db.Exec(context, query, tag.UID, tag.Name, tag.Slug, tag.CreatedAt)
	return dberr.Wrap(err, "Tag")
}

func (repository *PostgresRepository) Delete(context context.Context, uid string) error {
	// book_tags rows cascade via FK
	const query = `DELETE FROM tags WHERE uid = $1`

	cmd, err := repository.db.Exec(context, query, uid)
	if err != nil {
		return dberr.Wrap(err, "Tag")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Attach(context context.Context, bookUID, tagUID string) error {
	const query = `
		INSERT INTO book_tags (book_uid, tag_uid)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	_, err := repository.db.Exec(context, query, bookUID, tagUID)
	return dberr.Wrap(err, "Tag link")
}

func (repository *PostgresRepository) Detach(context context.Context, bookUID, tagUID string) error {
	const query = `DELETE FROM book_tags WHERE book_uid = $1 AND tag_uid = $2`

	cmd, err := repository.db.Exec(context, query, bookUID, tagUID)
	if err != nil {
		return dberr.Wrap(err, "Tag link")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ListByBook(context context.Context, bookUID string) ([]*Tag, error) {
	const query = `
		SELECT t.uid, t.name, t.slug, t.created_at
		FROM tags t
		JOIN book_tags bt ON bt.tag_uid = t.uid
		WHERE bt.book_uid = $1
		ORDER BY t.name ASC`

	rows, err := repository.db.Query(context, query, bookUID)
	if err != nil {
		return nil, dberr.Wrap(err, "Tags")
	}
	defer rows.Close()

	return collectTags(rows.Next, rows.Scan)
}

// collectTags drains a result set into a slice.
func collectTags(next func() bool, scan func(...any) error) ([]*Tag, error) {
	var result []*Tag
	for next() {
		tag := &Tag{}
		if err := scan(&tag.UID, &tag.Name, &tag.Slug, &tag.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "Tag")
		}
		result = append(result, tag)
	}
	return result, nil
}
