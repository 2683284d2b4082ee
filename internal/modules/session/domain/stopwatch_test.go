package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterly/internal/modules/session/domain"
	apperrors "chapterly/internal/platform/errors"
)

var t0 = time.Date(2024, 4, 2, 20, 0, 0, 0, time.UTC)

func TestStartRunsFromIdle(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, sw.Status)
	assert.Equal(t, "b1", sw.ActiveBookID)
	assert.Equal(t, 10*time.Minute, sw.Elapsed(t0.Add(10*time.Minute)))
}

func TestRedundantStartKeepsClock(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)

	again, err := sw.Start("b1", t0.Add(5*time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrTimerAlreadyRunning)
	assert.Equal(t, sw, again)
	assert.Equal(t, 7*time.Minute, again.Elapsed(t0.Add(7*time.Minute)))
}

func TestPausedTimeIsNeverCounted(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	sw, err = sw.Pause(t0.Add(10 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, sw.Elapsed(t0.Add(3*time.Hour)))

	sw, err = sw.Start("b1", t0.Add(30*time.Minute))
	require.NoError(t, err)
	idle, total, err := sw.Stop(t0.Add(35 * time.Minute))
	require.NoError(t, err)

	assert.True(t, idle.IsIdle())
	assert.Equal(t, 15*time.Minute, total)
	assert.InDelta(t, 0.25, domain.Hours(total), 1e-9)
}

func TestResumeOnlySameBook(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	sw, err = sw.Pause(t0.Add(time.Minute))
	require.NoError(t, err)

	_, err = sw.Start("b2", t0.Add(2*time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrTimerBusy)
}

func TestIdleRejectsPauseAndStop(t *testing.T) {
	idle := domain.Idle()

	_, err := idle.Pause(t0)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTimer)

	after, total, err := idle.Stop(t0)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTimer)
	assert.Zero(t, total)
	assert.Equal(t, idle, after)

	_, err = idle.Start("  ", t0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPauseRequiresRunning(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	sw, err = sw.Pause(t0.Add(time.Minute))
	require.NoError(t, err)

	_, err = sw.Pause(t0.Add(2 * time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTimer)
}

func TestElapsedClampsBackwardClock(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), sw.Elapsed(t0.Add(-time.Minute)))
}

func TestImmediateStopYieldsZero(t *testing.T) {
	sw, err := domain.Idle().Start("b1", t0)
	require.NoError(t, err)
	_, total, err := sw.Stop(t0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStopwatchValidate(t *testing.T) {
	assert.NoError(t, domain.Idle().Validate())
	assert.ErrorIs(t, domain.Stopwatch{Status: domain.StatusRunning}.Validate(), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, domain.Stopwatch{Status: "spinning"}.Validate(), apperrors.ErrInvalidInput)
	assert.NoError(t, domain.Stopwatch{Status: domain.StatusPaused, ActiveBookID: "b1", AccumulatedBeforePause: time.Minute}.Validate())
}

func TestSessionValidate(t *testing.T) {
	ok := domain.Session{ID: "s1", BookID: "b1", Date: t0, Duration: 0}
	assert.NoError(t, ok.Validate())

	negative := ok
	negative.Duration = -0.1
	assert.ErrorIs(t, negative.Validate(), apperrors.ErrInvalidInput)

	noBook := ok
	noBook.BookID = ""
	assert.ErrorIs(t, noBook.Validate(), apperrors.ErrInvalidInput)
}
