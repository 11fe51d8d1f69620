package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/vistos/internal/drafts"
)

func TestPurgeStaleDrafts(t *testing.T) {
	ctx := context.Background()
	store := drafts.NewMemoryStore()
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	for id, updated := range map[string]time.Time{
		"stale": now.Add(-25 * time.Hour),
		"fresh": now.Add(-time.Hour),
	} {
		require.NoError(t, store.Save(ctx, drafts.Draft{ID: id, Step: "personal", UpdatedAt: updated}), "save %s", id)
	}

	removed, err := PurgeStaleDrafts(ctx, store, now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, drafts.ErrNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestServiceAddJobValidation(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	assert.ErrorIs(t, svc.AddJob(" ", "* * * * *", func() {}), ErrEmptyJobName)
	assert.ErrorIs(t, svc.AddJob("job", "", func() {}), ErrEmptyCronExpr)
	assert.Error(t, svc.AddJob("job", "not a cron", func() {}))

	require.NoError(t, svc.RegisterDraftPurgeJob(drafts.NewMemoryStore(), 24*time.Hour, "*/15 * * * *"))
	assert.ErrorIs(t, svc.RegisterDraftPurgeJob(drafts.NewMemoryStore(), 24*time.Hour, "*/15 * * * *"), ErrDuplicateJob)
	assert.Error(t, svc.RegisterDraftPurgeJob(nil, time.Hour, "*/15 * * * *"))

	assert.Equal(t, []string{DraftPurgeJob}, svc.Jobs())
	assert.ErrorIs(t, svc.RunNow("missing"), ErrUnknownJob)
}

func TestServiceRunNow(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	ran := make(chan struct{}, 1)
	require.NoError(t, svc.AddJob("yearly", "0 0 1 1 *", func() { ran <- struct{}{} }))
	svc.Start()
	require.NoError(t, svc.RunNow("yearly"))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "job did not run")
	}

	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop(), "second stop")
	assert.ErrorIs(t, svc.AddJob("late", "* * * * *", func() {}), ErrStopped)
}

type countingPruner struct {
	calls chan struct{}
}

func (p *countingPruner) Prune() int {
	p.calls <- struct{}{}
	return 1
}

func TestRegisterLimiterPruneJob(t *testing.T) {
	svc, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	assert.Error(t, svc.RegisterLimiterPruneJob(nil, LimiterPruneCron))

	pruner := &countingPruner{calls: make(chan struct{}, 1)}
	require.NoError(t, svc.RegisterLimiterPruneJob(pruner, LimiterPruneCron))
	svc.Start()
	require.NoError(t, svc.RunNow(LimiterPruneJob))

	select {
	case <-pruner.calls:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "prune job did not run")
	}
}
