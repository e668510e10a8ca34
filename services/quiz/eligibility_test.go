package quiz

import (
	"testing"
	"time"

	"quizgate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEligibilityInsufficientCompletion(t *testing.T) {
	f := newFixture(t)
	u := f.user(false)
	c := f.course(false)
	ids := f.lessons(c.ID, 10)
	f.enroll(u.ID, c.ID, ids[:8]...)
	f.quiz(c.ID, 5, 80)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.Equal(t, ReasonInsufficientCompletion, got.Reason)
	require.NotNil(t, got.CompletionPercentage)
	assert.Equal(t, 80, *got.CompletionPercentage)
}

func TestCheckEligibilityThresholdBoundary(t *testing.T) {
	cases := []struct {
		name      string
		lessons   int
		completed int
		want      Reason
		pct       int
	}{
		{"89 percent", 9, 8, ReasonInsufficientCompletion, 89},
		{"90 percent", 10, 9, ReasonEligible, 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			u := f.user(false)
			c := f.course(false)
			ids := f.lessons(c.ID, tc.lessons)
			f.enroll(u.ID, c.ID, ids[:tc.completed]...)
			f.quiz(c.ID, 5, 80)

			got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Reason)
			assert.Equal(t, tc.want == ReasonEligible, got.Eligible)
			require.NotNil(t, got.CompletionPercentage)
			assert.Equal(t, tc.pct, *got.CompletionPercentage)
		})
	}
}

func TestCheckEligibilityCustomThreshold(t *testing.T) {
	f := newFixture(t)
	f.svc.Policy.CompletionThreshold = 75
	u := f.user(false)
	c := f.course(false)
	ids := f.lessons(c.ID, 4)
	f.enroll(u.ID, c.ID, ids[:3]...)
	f.quiz(c.ID, 3, 80)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
}

func TestCheckEligibilityAdminBypass(t *testing.T) {
	f := newFixture(t)
	admin := f.user(true)
	c := f.course(false)
	f.lessons(c.ID, 10)

	// Not enrolled, no quiz, and a block on record.
	until := f.now.Add(48 * time.Hour)
	require.NoError(t, f.db.Create(&models.QuizAttempt{UserID: admin.ID, CourseID: c.ID, BlockedUntil: &until}).Error)

	got, err := f.svc.CheckEligibility(f.ctx(), admin.ID, c.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
	assert.Equal(t, ReasonAdmin, got.Reason)
}

func TestCheckEligibilityNotEnrolled(t *testing.T) {
	f := newFixture(t)
	u := f.user(false)
	c := f.course(false)
	f.quiz(c.ID, 5, 80)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.Equal(t, ReasonNotEnrolled, got.Reason)
	assert.Nil(t, got.CompletionPercentage)
}

func TestCheckEligibilityNoQuiz(t *testing.T) {
	f := newFixture(t)
	u := f.user(false)
	c := f.course(false)
	ids := f.lessons(c.ID, 2)
	f.enroll(u.ID, c.ID, ids...)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonNoQuiz, got.Reason)

	// An inactive quiz is treated as missing.
	q := f.quiz(c.ID, 2, 80)
	require.NoError(t, f.db.Model(&q).Update("is_active", false).Error)

	got, err = f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonNoQuiz, got.Reason)
}

func TestCheckEligibilityBlock(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	until := f.now.Add(time.Hour)
	require.NoError(t, f.db.Create(&models.QuizAttempt{UserID: u.ID, CourseID: c.ID, BlockedUntil: &until}).Error)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.Equal(t, ReasonBlocked, got.Reason)
	require.NotNil(t, got.BlockedUntil)
	assert.WithinDuration(t, until, *got.BlockedUntil, time.Second)

	// Once the block has passed, the block-only record does not count as an attempt.
	f.now = until.Add(time.Minute)
	got, err = f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Eligible)
	assert.Equal(t, ReasonEligible, got.Reason)
}

func TestCheckEligibilityBlockCheckedBeforeEnrollment(t *testing.T) {
	f := newFixture(t)
	u := f.user(false)
	c := f.course(false)

	until := f.now.Add(time.Hour)
	require.NoError(t, f.db.Create(&models.QuizAttempt{UserID: u.ID, CourseID: c.ID, BlockedUntil: &until}).Error)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ReasonBlocked, got.Reason)
}

func TestCheckEligibilityAlreadyAttempted(t *testing.T) {
	f := newFixture(t)
	u, c, _ := f.ready()

	_, err := f.svc.SubmitAttempt(f.ctx(), Submission{UserID: u.ID, CourseID: c.ID, Answers: answers(1, 1, 1, 1, 1)})
	require.NoError(t, err)

	got, err := f.svc.CheckEligibility(f.ctx(), u.ID, c.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.Equal(t, ReasonAlreadyAttempted, got.Reason)
	require.NotNil(t, got.Attempt)
	assert.Equal(t, 5, got.Attempt.Score)
	assert.Equal(t, models.AttemptScored, got.Attempt.Kind())
}
