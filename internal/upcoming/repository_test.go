package upcoming

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/upcoming-content-backend/internal/dbtest"
)

func TestPgxRepository(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	reset := func(t *testing.T) {
		dbtest.Truncate(t, pool, table)
	}

	insert := func(t *testing.T, title string, order int, release time.Time) *Content {
		t.Helper()
		c := &Content{
			Title:       title,
			ContentType: ContentTypeSeries,
			Genres:      []string{"Drama", "Mystery"},
			ReleaseDate: release,
			Order:       order,
			Cast:        []string{"Lead", "Support"},
		}
		require.NoError(t, repo.Create(ctx, c))
		return c
	}

	orders := func(t *testing.T) map[string]int {
		t.Helper()
		list, err := repo.List(ctx)
		require.NoError(t, err)
		out := make(map[string]int, len(list))
		for _, c := range list {
			out[c.Title] = c.Order
		}
		return out
	}

	future := time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Create Get List", func(t *testing.T) {
		reset(t)
		pg := RatingPG
		c := &Content{
			Title:        "The Long Night",
			ContentType:  ContentTypeMovie,
			Genres:       []string{"Horror"},
			ReleaseDate:  future,
			Order:        1,
			RatingType:   &pg,
			Directors:    []string{"A. Director"},
			Description:  "Lights out.",
			ThumbnailURL: "/v1/media/x/thumbnail",
		}
		require.NoError(t, repo.Create(ctx, c))
		assert.NotEmpty(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
		insert(t, "Earlier", 0, future)

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "The Long Night", got.Title)
		assert.Equal(t, []string{"Horror"}, got.Genres)
		assert.Equal(t, future, got.ReleaseDate.UTC())
		require.NotNil(t, got.RatingType)
		assert.Equal(t, RatingPG, *got.RatingType)
		assert.Empty(t, got.Writers)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Earlier", list[0].Title)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Missing IDs", func(t *testing.T) {
		reset(t)
		_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "00000000-0000-0000-0000-000000000000"), ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, &Content{ID: "00000000-0000-0000-0000-000000000000", Title: "x", ContentType: ContentTypeMovie}), ErrNotFound)
	})

	t.Run("Order Queries", func(t *testing.T) {
		reset(t)
		a := insert(t, "A", 0, future)
		b := insert(t, "B", 1, future)
		c := insert(t, "C", 3, future)

		taken, err := repo.OrderTaken(ctx, 1, "")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.OrderTaken(ctx, 1, b.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		slots, err := repo.SlotsFrom(ctx, 1, "")
		require.NoError(t, err)
		assert.Equal(t, []Slot{{ID: c.ID, Order: 3}, {ID: b.ID, Order: 1}}, slots)

		slots, err = repo.SlotsFrom(ctx, 0, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []Slot{{ID: b.ID, Order: 1}, {ID: a.ID, Order: 0}}, slots)
	})

	t.Run("Duplicate Order Rejected At Commit", func(t *testing.T) {
		reset(t)
		insert(t, "A", 0, future)

		err := repo.WithinTx(ctx, func(tx Repository) error {
			return tx.Create(ctx, &Content{Title: "Dup", ContentType: ContentTypeMovie, ReleaseDate: future, Order: 0})
		})
		assert.ErrorIs(t, err, ErrOrderConflict)
		assert.Equal(t, map[string]int{"A": 0}, orders(t))
	})

	t.Run("Rollback On Error", func(t *testing.T) {
		reset(t)
		a := insert(t, "A", 0, future)

		err := repo.WithinTx(ctx, func(tx Repository) error {
			require.NoError(t, tx.LockOrdering(ctx))
			require.NoError(t, tx.SetOrder(ctx, a.ID, 7))
			return ErrCapacityExceeded
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, map[string]int{"A": 0}, orders(t))
	})

	t.Run("Delete Released Before", func(t *testing.T) {
		reset(t)
		insert(t, "Old", 0, time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC))
		insert(t, "Cutoff", 1, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC))
		insert(t, "New", 2, future)

		n, err := repo.DeleteReleasedBefore(ctx, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, map[string]int{"Cutoff": 1, "New": 2}, orders(t))
	})

	t.Run("Service Against Postgres", func(t *testing.T) {
		reset(t)
		svc := NewService(repo, NewTTLCache(time.Minute), NewLogNotifier(zerolog.New(io.Discard)), Options{
			Now:    func() time.Time { return fixedNow },
			Logger: zerolog.New(io.Discard),
		})
		for i, title := range []string{"A", "B", "C", "D"} {
			insert(t, title, i, future)
		}
		stale := insert(t, "Stale", 10, fixedNow.AddDate(0, 0, -2))

		in := Input{Title: "New", ContentType: ContentTypeAnime, ReleaseDate: future, Order: "1"}
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"A": 0, "New": 1, "B": 2, "C": 3, "D": 4}, orders(t))

		_, err = repo.GetByID(ctx, stale.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		var dID string
		for _, c := range list {
			if c.Title == "D" {
				dID = c.ID
			}
		}

		_, err = svc.Update(ctx, dID, Input{Title: "D", ContentType: ContentTypeMovie, ReleaseDate: future, Order: "1"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"A": 0, "D": 1, "New": 2, "B": 3, "C": 4}, orders(t))
	})

	t.Run("Concurrent Creates Keep Orders Dense", func(t *testing.T) {
		reset(t)
		svc := NewService(repo, NewTTLCache(time.Minute), NewLogNotifier(zerolog.New(io.Discard)), Options{
			Now:    func() time.Time { return fixedNow },
			Logger: zerolog.New(io.Discard),
		})

		const writers = 8
		var g errgroup.Group
		for i := 0; i < writers; i++ {
			in := Input{Title: "Writer " + string(rune('A'+i)), ContentType: ContentTypeMovie, ReleaseDate: future, Order: "0"}
			g.Go(func() error {
				_, err := svc.Create(ctx, in)
				return err
			})
		}
		require.NoError(t, g.Wait())

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, writers)

		got := make([]int, 0, writers)
		for _, c := range list {
			got = append(got, c.Order)
		}
		sort.Ints(got)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got)
	})
}

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError("insert", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), ErrOrderConflict)
	assert.ErrorIs(t, mapWriteError("insert", &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange}), ErrInvalidOrder)

	cause := errors.New("connection reset")
	err := mapWriteError("insert", cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "insert: connection reset")
}
