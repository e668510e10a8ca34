package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client reads lesson sets from the course catalog service.
type Client struct {
	http *resty.Client
}

type lessonsResponse struct {
	LessonIDs []uint `json:"lesson_ids"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func New(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "application/json")
	return &Client{http: client}
}

// CurrentLessonIDs returns the IDs of the lessons that currently exist in
// courseID. An unknown course has no lessons.
func (c *Client) CurrentLessonIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var out lessonsResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("courseID", fmt.Sprint(courseID)).
		SetResult(&out).
		SetError(&apiErr).
		Get("/courses/{courseID}/lessons")
	if err != nil {
		return nil, fmt.Errorf("catalog: lessons of course %d: %w", courseID, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return out.LessonIDs, nil
	case http.StatusNotFound:
		return []uint{}, nil
	default:
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("catalog: lessons of course %d: %s", courseID, msg)
	}
}
