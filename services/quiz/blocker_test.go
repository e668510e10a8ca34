package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizgate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockForViolation(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	res, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.True(t, res.Blocked)
	require.NotNil(t, res.BlockedUntil)
	assert.WithinDuration(t, f.now.Add(10*24*time.Hour), *res.BlockedUntil, time.Second)

	stored := f.attempts(c.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AttemptBlock, stored[0].Kind())
	assert.Zero(t, stored[0].Score)
	assert.Empty(t, stored[0].Answers)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonBlocked, got.Reason)
	require.NotNil(t, got.BlockedUntil)
	assert.WithinDuration(t, *res.BlockedUntil, *got.BlockedUntil, time.Second)
}

func TestBlockForViolationIgnoresAdmins(t *testing.T) {
	f := newFixture(t)
	admin := f.user(true)
	c := f.course(false)

	t.Run("trigger flagged admin", func(t *testing.T) {
		res, err := f.svc.BlockForViolation(f.ctx(), admin.ID, c.ID, true)
		require.NoError(t, err)
		assert.False(t, res.Blocked)
		assert.Nil(t, res.BlockedUntil)
	})

	t.Run("directory says admin", func(t *testing.T) {
		res, err := f.svc.BlockForViolation(f.ctx(), admin.ID, c.ID, false)
		require.NoError(t, err)
		assert.False(t, res.Blocked)
	})

	assert.Empty(t, f.attempts(c.ID))
}

func TestBlockForViolationDirectoryError(t *testing.T) {
	f := newFixture(t)
	f.svc.Admins = failingDirectory{}
	u := f.user(false)
	c := f.course(false)

	_, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	assert.ErrorIs(t, err, errDirectoryDown)
	assert.Empty(t, f.attempts(c.ID))
}

func TestBlockForViolationRepeatExtends(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	_, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)

	f.now = f.now.Add(3 * 24 * time.Hour)
	res, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)

	stored := f.attempts(c.ID)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].BlockedUntil)
	assert.WithinDuration(t, *res.BlockedUntil, *stored[0].BlockedUntil, time.Second)
	assert.WithinDuration(t, testNow.Add(13*24*time.Hour), *stored[0].BlockedUntil, time.Second)
}

func TestBlockForViolationNeverShortens(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	first, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)

	f.svc.Policy.BlockDuration = time.Hour
	f.now = f.now.Add(24 * time.Hour)
	res, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	require.NotNil(t, res.BlockedUntil)
	assert.WithinDuration(t, *first.BlockedUntil, *res.BlockedUntil, time.Second)

	stored := f.attempts(c.ID)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].BlockedUntil)
	assert.WithinDuration(t, testNow.Add(DefaultBlockDuration), *stored[0].BlockedUntil, time.Second)
}

func TestBlockForViolationConcurrentReports(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
			if err == nil && !res.Blocked {
				err = errors.New("report not acknowledged as a block")
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	stored := f.attempts(c.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AttemptBlock, stored[0].Kind())
	require.NotNil(t, stored[0].BlockedUntil)
	assert.WithinDuration(t, testNow.Add(DefaultBlockDuration), *stored[0].BlockedUntil, time.Second)
}

func TestBlockForViolationKeepsScoredAttempt(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	_, err := f.svc.SubmitAttempt(f.ctx(), Submission{UserID: u.ID, CourseID: c.ID, Answers: answers(1, 1, 1, 1, 0)})
	require.NoError(t, err)

	_, err = f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)

	stored := f.attempts(c.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AttemptScored, stored[0].Kind())
	assert.Equal(t, 4, stored[0].Score)
	assert.True(t, stored[0].Passed)
	assert.NotNil(t, stored[0].BlockedUntil)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonBlocked, got.Reason)

	f.now = f.now.Add(11 * 24 * time.Hour)
	got, err = f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonAlreadyAttempted, got.Reason)
	require.NotNil(t, got.Attempt)
	assert.Equal(t, 4, got.Attempt.Score)
}

func TestBlockForViolationCustomDuration(t *testing.T) {
	f := newFixture(t)
	f.svc.Policy.BlockDuration = 2 * time.Hour
	u, c, _ := f.ready()

	res, err := f.svc.BlockForViolation(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.WithinDuration(t, f.now.Add(2*time.Hour), *res.BlockedUntil, time.Second)

	f.now = f.now.Add(3 * time.Hour)
	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
}

var errDirectoryDown = errors.New("directory unavailable")

type failingDirectory struct{}

func (failingDirectory) IsAdmin(context.Context, uint) (bool, error) {
	return false, errDirectoryDown
}
