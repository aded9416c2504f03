package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

type fakeCartStore struct {
	pending    int64
	purged     int64
	countErr   error
	deleteErr  error
	lastCutoff time.Time
}

func (f *fakeCartStore) CountStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	return f.pending, f.countErr
}

func (f *fakeCartStore) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	return f.purged, f.deleteErr
}

func newStaleCartJob(t *testing.T, store *fakeCartStore, staleAfter time.Duration) *staleCartJob {
	t.Helper()
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Carts:      store,
		StaleAfter: staleAfter,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job.(*staleCartJob)
}

func TestStaleCartJobPurgesBeyondCutoff(t *testing.T) {
	store := &fakeCartStore{pending: 4, purged: 4}
	job := newStaleCartJob(t, store, 30*24*time.Hour)

	fixed := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := fixed.Add(-30 * 24 * time.Hour)
	if !store.lastCutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", store.lastCutoff, want)
	}
}

func TestStaleCartJobCollectsPhaseErrors(t *testing.T) {
	store := &fakeCartStore{
		countErr:  errors.New("count boom"),
		deleteErr: errors.New("delete boom"),
	}
	job := newStaleCartJob(t, store, 0)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	for _, fragment := range []string{"count boom", "delete boom"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q missing %q", err.Error(), fragment)
		}
	}
}

func TestStaleCartJobRequiresStore(t *testing.T) {
	_, err := NewStaleCartJob(StaleCartJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
	})
	if err == nil {
		t.Fatal("expected error for missing store")
	}
}
