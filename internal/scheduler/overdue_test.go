package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"library-service/internal/dto/response"
	"library-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubSweeper satisfies usecase.BorrowingService with no-ops so the
// scheduler lifecycle can be exercised without a database.
type stubSweeper struct {
	sweeps atomic.Int32
}

func (s *stubSweeper) BorrowBook(ctx context.Context, userID, bookID int64, borrowDays int) (*response.BorrowingResponse, error) {
	return nil, nil
}

func (s *stubSweeper) ReturnBook(ctx context.Context, borrowingID int64) error { return nil }

func (s *stubSweeper) CalculateFine(ctx context.Context, borrowingID int64) (float64, error) {
	return 0, nil
}

func (s *stubSweeper) CanUserBorrowBook(ctx context.Context, userID, bookID int64) (bool, error) {
	return false, nil
}

func (s *stubSweeper) UpdateOverdueStatus(ctx context.Context) (*response.OverdueSweepResponse, error) {
	s.sweeps.Add(1)
	return &response.OverdueSweepResponse{}, nil
}

func (s *stubSweeper) GetBorrowing(ctx context.Context, borrowingID int64) (*response.BorrowingResponse, error) {
	return nil, nil
}

func (s *stubSweeper) GetUserActiveBorrowings(ctx context.Context, userID int64) ([]response.BorrowingResponse, error) {
	return nil, nil
}

func (s *stubSweeper) GetUserBorrowingHistory(ctx context.Context, userID int64) ([]response.BorrowingResponse, error) {
	return nil, nil
}

func (s *stubSweeper) MarkLost(ctx context.Context, borrowingID int64) error { return nil }

func (s *stubSweeper) PayFine(ctx context.Context, borrowingID int64) error { return nil }

func newTestScheduler(enabled bool, spec string) (*OverdueScheduler, *stubSweeper) {
	svc := &stubSweeper{}
	cfg := utils.SchedulerConfig{Enabled: enabled, OverdueSpec: spec}
	return NewOverdueScheduler(svc, cfg, zap.NewNop()), svc
}

func TestOverdueScheduler_StartStop(t *testing.T) {
	sched, _ := newTestScheduler(true, "* * * * *")

	require.NoError(t, sched.Start(context.Background()))
	assert.True(t, sched.IsRunning())
	require.NotNil(t, sched.NextRunTime())

	sched.Stop()
	assert.False(t, sched.IsRunning())
	assert.Nil(t, sched.NextRunTime())

	// Second Stop must be a no-op.
	sched.Stop()
	assert.False(t, sched.IsRunning())
}

func TestOverdueScheduler_StopReleasesContextWatcher(t *testing.T) {
	sched, _ := newTestScheduler(true, "* * * * *")

	before := runtime.NumGoroutine()

	require.NoError(t, sched.Start(context.Background()))
	sched.Stop()

	// Stop cancels the derived context, so the goroutine watching it
	// must exit instead of lingering until the parent context ends.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOverdueScheduler_ParentContextCancelStops(t *testing.T) {
	sched, _ := newTestScheduler(true, "* * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sched.Start(ctx))
	assert.True(t, sched.IsRunning())

	cancel()

	require.Eventually(t, func() bool {
		return !sched.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOverdueScheduler_Disabled(t *testing.T) {
	sched, _ := newTestScheduler(false, "* * * * *")

	require.NoError(t, sched.Start(context.Background()))
	assert.False(t, sched.IsRunning())
	assert.Nil(t, sched.NextRunTime())
}

func TestOverdueScheduler_InvalidSpec(t *testing.T) {
	sched, _ := newTestScheduler(true, "not a cron spec")

	err := sched.Start(context.Background())
	require.Error(t, err)
	assert.False(t, sched.IsRunning())
}

func TestOverdueScheduler_RunNow(t *testing.T) {
	sched, svc := newTestScheduler(true, "* * * * *")

	sched.RunNow()

	require.Eventually(t, func() bool {
		return svc.sweeps.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
