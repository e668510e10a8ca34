package quiz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quizgate/database"
	"quizgate/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userSeq atomic.Int64
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db.Session(&gorm.Session{Logger: logger.Default.LogMode(logger.Silent)})
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	svc *Service
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, db: newTestDB(t), now: testNow}
	f.svc = NewService(f.db, DefaultPolicy())
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) ctx() context.Context { return context.Background() }

func (f *fixture) user(admin bool) models.User {
	f.t.Helper()
	u := models.User{Name: "learner", Email: fmt.Sprintf("user%d@example.com", userSeq.Add(1))}
	if admin {
		u.Role = models.RoleAdmin
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) course(free bool) models.Course {
	f.t.Helper()
	c := models.Course{Title: "Go in Practice", IsFree: free}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) lessons(courseID uint, n int) []uint {
	f.t.Helper()
	ids := make([]uint, n)
	for i := 0; i < n; i++ {
		l := models.Lesson{CourseID: courseID, Title: fmt.Sprintf("Lesson %d", i+1), OrderIndex: i + 1}
		require.NoError(f.t, f.db.Create(&l).Error)
		ids[i] = l.ID
	}
	return ids
}

func (f *fixture) deleteLesson(id uint) {
	f.t.Helper()
	require.NoError(f.t, f.db.Model(&models.Lesson{}).Where("id = ?", id).Update("is_deleted", true).Error)
}

func (f *fixture) enroll(userID, courseID uint, completed ...uint) models.Enrollment {
	f.t.Helper()
	e := models.Enrollment{UserID: userID, CourseID: courseID, EnrolledAt: f.now}
	require.NoError(f.t, f.db.Create(&e).Error)
	for _, id := range completed {
		require.NoError(f.t, f.db.Create(&models.LessonCompletion{EnrollmentID: e.ID, LessonID: id}).Error)
	}
	return e
}

// quiz stores an active quiz whose correct answer is always option 1.
func (f *fixture) quiz(courseID uint, questions, passingScore int) models.Quiz {
	f.t.Helper()
	q := models.Quiz{
		CourseID:     courseID,
		Title:        "Final",
		PassingScore: passingScore,
		IsActive:     true,
	}
	for i := 0; i < questions; i++ {
		q.Questions = append(q.Questions, models.QuizQuestion{
			Question:      fmt.Sprintf("Q%d", i+1),
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: 1,
		})
	}
	require.NoError(f.t, f.db.Create(&q).Error)
	return q
}

// ready returns a learner enrolled in a course with every lesson complete and
// an active 5-question quiz passing at 80.
func (f *fixture) ready() (models.User, models.Course, models.Quiz) {
	f.t.Helper()
	u := f.user(false)
	c := f.course(false)
	ids := f.lessons(c.ID, 10)
	f.enroll(u.ID, c.ID, ids...)
	q := f.quiz(c.ID, 5, 80)
	return u, c, q
}

func (f *fixture) attempts(courseID uint) []models.QuizAttempt {
	f.t.Helper()
	var out []models.QuizAttempt
	require.NoError(f.t, f.db.Where("course_id = ?", courseID).Find(&out).Error)
	return out
}

func answers(vals ...int) []*int {
	out := make([]*int, len(vals))
	for i := range vals {
		v := vals[i]
		out[i] = &v
	}
	return out
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []CertificateNotice
	done    chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 8)}
}

func (n *recordingNotifier) CertificateEarned(_ context.Context, notice CertificateNotice) error {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}
