package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baedea/brainfin/internal/models"
)

// stubRepo records DeleteOlderThan calls.
type stubRepo struct {
	mu      sync.Mutex
	cutoffs []time.Time
}

func (r *stubRepo) Create(ctx context.Context, record *models.SimulationRecord) error { return nil }
func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error) {
	return nil, models.ErrNotFound
}
func (r *stubRepo) List(ctx context.Context, filter models.RecordFilter) ([]*models.SimulationRecord, error) {
	return nil, nil
}
func (r *stubRepo) Update(ctx context.Context, record *models.SimulationRecord) error { return nil }
func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error                    { return nil }
func (r *stubRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, cutoff)
	return 3, nil
}

func newTestScheduler() (*Scheduler, *stubRepo) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := &stubRepo{}
	return NewScheduler(repo, log), repo
}

func TestScheduleRetentionSweepValidation(t *testing.T) {
	s, _ := newTestScheduler()

	assert.Error(t, s.ScheduleRetentionSweep("0 3 * * *", 0))
	assert.Error(t, s.ScheduleRetentionSweep("not a cron", 30))
	assert.NoError(t, s.ScheduleRetentionSweep("0 3 * * *", 30))
}

func TestStartRequiresJobs(t *testing.T) {
	s, _ := newTestScheduler()

	assert.Error(t, s.Start())
}

func TestStartStopLifecycle(t *testing.T) {
	s, _ := newTestScheduler()
	require.NoError(t, s.ScheduleRetentionSweep("0 3 * * *", 30))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	assert.False(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	// Stopping twice is a no-op.
	assert.NoError(t, s.Stop())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s, _ := newTestScheduler()
	require.NoError(t, s.ScheduleRetentionSweep("0 3 * * *", 30))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleRetentionSweep("0 4 * * *", 30))
}

func TestRetentionSweepRuns(t *testing.T) {
	s, repo := newTestScheduler()
	require.NoError(t, s.ScheduleRetentionSweep("@every 10ms", 30))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.cutoffs) > 0
	}, 2*time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	// Cutoff sits roughly maxAgeDays in the past.
	assert.WithinDuration(t, time.Now().UTC().Add(-30*24*time.Hour), repo.cutoffs[0], time.Minute)
}
