package upcoming

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the data store gateway for upcoming contents.
type Repository interface {
	// WithinTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
	// LockOrdering serialises writers of the ordering until the surrounding
	// transaction ends. It is a no-op outside WithinTx.
	LockOrdering(ctx context.Context) error

	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*Content, error)
	List(ctx context.Context) ([]*Content, error)
	OrderTaken(ctx context.Context, order int, excludeID string) (bool, error)
	SlotsFrom(ctx context.Context, order int, excludeID string) ([]Slot, error)
	Create(ctx context.Context, c *Content) error
	Update(ctx context.Context, c *Content) error
	SetOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
	DeleteReleasedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// "UPCOMING" as a big-endian int64.
const orderingLockKey int64 = 0x5550434F4D494E47

const table = "public.upcoming_contents"

var columns = []string{
	"id", "title", "content_type", "genres", "release_date", "content_order",
	"rating_type", "directors", "writers", "casts", "description",
	"thumbnail_url", "trailer_url", "created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, db: pool}
}

func (r *pgxRepository) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upcoming transaction failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgxRepository{pool: r.pool, db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError("commit upcoming transaction failed", err)
	}
	return nil
}

func (r *pgxRepository) LockOrdering(ctx context.Context) error {
	if !r.inTx {
		return nil
	}
	if _, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", orderingLockKey); err != nil {
		return fmt.Errorf("lock upcoming ordering failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count upcoming query failed: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count upcoming failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Content, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get upcoming query failed: %w", err)
	}

	c, err := scanContent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isMissing(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get upcoming failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Content, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		OrderBy("content_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list upcoming failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upcoming failed: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list upcoming failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) OrderTaken(ctx context.Context, order int, excludeID string) (bool, error) {
	q := psql.Select("count(*)").
		From(table).
		Where(squirrel.Eq{"content_order": order})
	if excludeID != "" {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build order taken query failed: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check content order failed: %w", err)
	}
	return n > 0, nil
}

func (r *pgxRepository) SlotsFrom(ctx context.Context, order int, excludeID string) ([]Slot, error) {
	q := psql.Select("id", "content_order").
		From(table).
		Where(squirrel.GtOrEq{"content_order": order})
	if excludeID != "" {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := q.OrderBy("content_order DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slots query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content slots failed: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Order); err != nil {
			return nil, fmt.Errorf("scan content slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list content slots failed: %w", err)
	}
	return slots, nil
}

func (r *pgxRepository) Create(ctx context.Context, c *Content) error {
	query, args, err := psql.Insert(table).
		Columns(
			"title", "content_type", "genres", "release_date", "content_order",
			"rating_type", "directors", "writers", "casts", "description",
			"thumbnail_url", "trailer_url",
		).
		Values(
			c.Title, string(c.ContentType), textArray(c.Genres), c.ReleaseDate, c.Order,
			ratingValue(c.RatingType), textArray(c.Directors), textArray(c.Writers), textArray(c.Cast), c.Description,
			c.ThumbnailURL, c.TrailerURL,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create upcoming query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return mapWriteError("create upcoming failed", err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Content) error {
	query, args, err := psql.Update(table).
		Set("title", c.Title).
		Set("content_type", string(c.ContentType)).
		Set("genres", textArray(c.Genres)).
		Set("release_date", c.ReleaseDate).
		Set("content_order", c.Order).
		Set("rating_type", ratingValue(c.RatingType)).
		Set("directors", textArray(c.Directors)).
		Set("writers", textArray(c.Writers)).
		Set("casts", textArray(c.Cast)).
		Set("description", c.Description).
		Set("thumbnail_url", c.ThumbnailURL).
		Set("trailer_url", c.TrailerURL).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update upcoming query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return mapWriteError("update upcoming failed", err)
	}
	return nil
}

func (r *pgxRepository) SetOrder(ctx context.Context, id string, order int) error {
	query, args, err := psql.Update(table).
		Set("content_order", order).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set order query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError("set content order failed", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete upcoming query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete upcoming failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteReleasedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete(table).
		Where(squirrel.Lt{"release_date": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire upcoming query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire upcoming failed: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanContent(row pgx.Row) (*Content, error) {
	var c Content
	var contentType string
	var rating *string

	if err := row.Scan(
		&c.ID, &c.Title, &contentType, &c.Genres, &c.ReleaseDate, &c.Order,
		&rating, &c.Directors, &c.Writers, &c.Cast, &c.Description,
		&c.ThumbnailURL, &c.TrailerURL, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.ContentType = ContentType(contentType)
	if rating != nil {
		rt := RatingType(*rating)
		c.RatingType = &rt
	}
	return &c, nil
}

// isMissing treats both "no row" and a malformed uuid as a missing record.
func isMissing(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

func mapWriteError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrOrderConflict
		case pgerrcode.NumericValueOutOfRange:
			return ErrInvalidOrder
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ratingValue(r *RatingType) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
