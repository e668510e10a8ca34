package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDParams(t *testing.T) {
	var course, lesson uint
	app := fiber.New()
	app.Get("/course/:course_id/lesson/:lesson_id", IDParams("course_id", "lesson_id"), func(c *fiber.Ctx) error {
		course = c.Locals("course_id").(uint)
		lesson = c.Locals("lesson_id").(uint)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		path   string
		status int
	}{
		{"/course/12/lesson/7", fiber.StatusOK},
		{"/course/0/lesson/7", fiber.StatusBadRequest},
		{"/course/12/lesson/-1", fiber.StatusBadRequest},
		{"/course/x/lesson/7", fiber.StatusBadRequest},
		{"/course/99999999999/lesson/7", fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
	}

	_, err := app.Test(httptest.NewRequest("GET", "/course/12/lesson/7", nil))
	require.NoError(t, err)
	assert.Equal(t, uint(12), course)
	assert.Equal(t, uint(7), lesson)
}

func TestStruct(t *testing.T) {
	type item struct {
		Name string `json:"name" validate:"required"`
	}
	type request struct {
		Count *int   `json:"count" validate:"required,min=1"`
		Items []item `json:"items" validate:"required,min=1,dive"`
		Skip  string `json:"-" validate:"omitempty"`
	}

	zero := 0
	errs := Struct(&request{Count: &zero, Items: []item{{}}})
	assert.Equal(t, map[string]string{
		"count":         "count must be at least 1!",
		"items[0].name": "name is required!",
	}, errs)

	one := 1
	assert.Nil(t, Struct(&request{Count: &one, Items: []item{{Name: "x"}}}))
}
