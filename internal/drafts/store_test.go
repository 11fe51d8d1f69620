package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/testutil"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			return NewSQLStore(testutil.NewTestDB(t))
		},
		"redis": func(t *testing.T) Store {
			client, _ := testutil.NewTestRedis(t)
			return NewRedisStore(client, time.Hour)
		},
	}
}

func newDraft(id string, updatedAt time.Time) Draft {
	return Draft{
		ID:   id,
		Step: "travel",
		Data: booking.FormData{
			FullName:        "Joana Tavares",
			City:            "Praia",
			AppointmentDate: "2026-03-11",
			AppointmentTime: "10:30",
		},
		Errors:    booking.Errors{booking.FieldEmail: "Indique um e-mail valido"},
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("get_missing", func(t *testing.T) {
				store := factory(t)
				_, err := store.Get(ctx, "missing")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("save_and_get", func(t *testing.T) {
				store := factory(t)
				draft := newDraft("a", base)
				require.NoError(t, store.Save(ctx, draft))

				got, err := store.Get(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, draft.Data, got.Data)
				assert.Equal(t, draft.Errors, got.Errors)
				assert.Equal(t, "travel", got.Step)
				assert.True(t, got.UpdatedAt.Equal(base))
				assert.False(t, got.Submitted())
			})

			t.Run("overwrite", func(t *testing.T) {
				store := factory(t)
				draft := newDraft("a", base)
				require.NoError(t, store.Save(ctx, draft))

				submittedAt := base.Add(time.Minute)
				draft.Step = "review"
				draft.Errors = nil
				draft.SubmittedAt = &submittedAt
				draft.UpdatedAt = submittedAt
				require.NoError(t, store.Save(ctx, draft))

				got, err := store.Get(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, "review", got.Step)
				assert.Empty(t, got.Errors)
				require.True(t, got.Submitted())
				assert.True(t, got.SubmittedAt.Equal(submittedAt))
			})

			t.Run("delete", func(t *testing.T) {
				store := factory(t)
				require.NoError(t, store.Save(ctx, newDraft("a", base)))
				require.NoError(t, store.Delete(ctx, "a"))

				_, err := store.Get(ctx, "a")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("purge_before", func(t *testing.T) {
				store := factory(t)
				require.NoError(t, store.Save(ctx, newDraft("old", base.Add(-48*time.Hour))))
				require.NoError(t, store.Save(ctx, newDraft("new", base)))

				removed, err := store.PurgeBefore(ctx, base.Add(-24*time.Hour))
				require.NoError(t, err)
				assert.Equal(t, 1, removed)

				_, err = store.Get(ctx, "old")
				assert.ErrorIs(t, err, ErrNotFound)
				_, err = store.Get(ctx, "new")
				assert.NoError(t, err)
			})
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, newDraft("a", time.Now())))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	got.Errors[booking.FieldPhone] = "changed"

	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, again.Errors.Has(booking.FieldPhone))
}

func TestRedisStoreExpiresIdleDrafts(t *testing.T) {
	ctx := context.Background()
	client, server := testutil.NewTestRedis(t)
	store := NewRedisStore(client, 30*time.Minute)

	draft := newDraft("idle", time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, draft))
	assert.Equal(t, 30*time.Minute, server.TTL(redisKey("idle")))

	server.FastForward(31 * time.Minute)
	_, err := store.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrNotFound)
}
