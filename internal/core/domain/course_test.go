package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourse_FindLesson(t *testing.T) {
	course := Course{
		Title: "Building Toward Computer Use",
		Lessons: []Lesson{
			{Number: 0, Title: "Introduction", Link: "https://example.com/l0"},
			{Number: 1, Title: "API Basics"},
			{Number: 2, Title: "Tool Use"},
		},
	}

	t.Run("existing lesson", func(t *testing.T) {
		lesson := course.FindLesson(1)
		require.NotNil(t, lesson)
		assert.Equal(t, "API Basics", lesson.Title)
	})

	t.Run("lesson zero", func(t *testing.T) {
		lesson := course.FindLesson(0)
		require.NotNil(t, lesson)
		assert.Equal(t, "Introduction", lesson.Title)
	})

	t.Run("missing lesson", func(t *testing.T) {
		assert.Nil(t, course.FindLesson(42))
	})

	t.Run("no lessons", func(t *testing.T) {
		empty := Course{Title: "Empty"}
		assert.Nil(t, empty.FindLesson(0))
	})
}

func TestSearchResultSet_States(t *testing.T) {
	t.Run("failed set", func(t *testing.T) {
		set := SearchResultSet{Err: ErrCourseNotFound}
		assert.True(t, set.Failed())
		assert.False(t, set.Empty())
	})

	t.Run("empty set", func(t *testing.T) {
		set := SearchResultSet{}
		assert.False(t, set.Failed())
		assert.True(t, set.Empty())
	})

	t.Run("set with results", func(t *testing.T) {
		set := SearchResultSet{Results: []SearchResult{{Content: "hit"}}}
		assert.False(t, set.Failed())
		assert.False(t, set.Empty())
	})
}
