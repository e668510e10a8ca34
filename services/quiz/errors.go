package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuizExists        = errors.New("quiz already exists for this course")
	ErrCourseNotFound    = errors.New("course not found")
	ErrAlreadyAttempted  = errors.New("quiz already attempted")
	ErrAttemptNotFound   = errors.New("quiz attempt not found")
	ErrNotEnrolled       = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrPaymentRequired   = errors.New("course is not free")
	ErrLessonNotInCourse = errors.New("lesson does not belong to this course")
)

// ValidationError carries field-level reasons for a rejected quiz definition.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid quiz: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// GateError is returned by SubmitAttempt when an eligibility gate fails.
type GateError struct {
	Eligibility Eligibility
}

func (e *GateError) Error() string {
	return fmt.Sprintf("not eligible for quiz: %s", e.Eligibility.Reason)
}

// Is lets errors.Is(err, ErrAlreadyAttempted) and errors.Is(err, ErrNotEnrolled)
// match the corresponding gate reasons.
func (e *GateError) Is(target error) bool {
	switch target {
	case ErrAlreadyAttempted:
		return e.Eligibility.Reason == ReasonAlreadyAttempted
	case ErrNotEnrolled:
		return e.Eligibility.Reason == ReasonNotEnrolled
	case ErrQuizNotFound:
		return e.Eligibility.Reason == ReasonNoQuiz
	}
	return false
}
