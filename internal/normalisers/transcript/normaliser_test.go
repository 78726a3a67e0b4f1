package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

const sampleTranscript = `Course Title: Building Toward Computer Use
Course Link: https://example.com/courses/computer-use
Course Instructor: Colt Steele

Lesson 0: Introduction
Lesson Link: https://example.com/courses/computer-use/lesson/0
Welcome to the course. We will cover the messages API.

Lesson 1: API Basics
Lesson Link: https://example.com/courses/computer-use/lesson/1
The API takes a list of messages and returns a response.
Each message has a role and content.

Lesson 2: Tool Use
Tools let the model call functions you define.
`

func TestParse_FullTranscript(t *testing.T) {
	parsed, err := New().Parse(sampleTranscript)
	require.NoError(t, err)

	assert.Equal(t, "Building Toward Computer Use", parsed.Course.Title)
	assert.Equal(t, "https://example.com/courses/computer-use", parsed.Course.Link)
	assert.Equal(t, "Colt Steele", parsed.Course.Instructor)

	require.Len(t, parsed.Course.Lessons, 3)
	assert.Equal(t, 0, parsed.Course.Lessons[0].Number)
	assert.Equal(t, "Introduction", parsed.Course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/courses/computer-use/lesson/0", parsed.Course.Lessons[0].Link)
	assert.Equal(t, "Tool Use", parsed.Course.Lessons[2].Title)
	assert.Empty(t, parsed.Course.Lessons[2].Link)

	require.Len(t, parsed.Segments, 3)
	require.NotNil(t, parsed.Segments[0].LessonNumber)
	assert.Equal(t, 0, *parsed.Segments[0].LessonNumber)
	assert.Contains(t, parsed.Segments[1].Text, "role and content")
	assert.NotContains(t, parsed.Segments[1].Text, "Lesson Link:")
}

func TestParse_MissingTitle(t *testing.T) {
	raw := `Course Link: https://example.com
Lesson 0: Introduction
Some content here.
`
	_, err := New().Parse(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParse_FrontMatter(t *testing.T) {
	raw := `Course Title: Prompting Basics

This paragraph sits before any lesson marker.

Lesson 1: Getting Started
Lesson content.
`
	parsed, err := New().Parse(raw)
	require.NoError(t, err)

	require.Len(t, parsed.Segments, 2)
	assert.Nil(t, parsed.Segments[0].LessonNumber)
	assert.Contains(t, parsed.Segments[0].Text, "before any lesson marker")
	require.NotNil(t, parsed.Segments[1].LessonNumber)
	assert.Equal(t, 1, *parsed.Segments[1].LessonNumber)
}

func TestParse_TitleOnlyNoLessons(t *testing.T) {
	parsed, err := New().Parse("Course Title: Solo\n")
	require.NoError(t, err)
	assert.Equal(t, "Solo", parsed.Course.Title)
	assert.Empty(t, parsed.Course.Lessons)
	assert.Empty(t, parsed.Segments)
}

func TestParse_LessonWithoutLink(t *testing.T) {
	raw := `Course Title: Minimal
Lesson 3: Only Lesson
Body text.
`
	parsed, err := New().Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Course.Lessons, 1)
	assert.Equal(t, 3, parsed.Course.Lessons[0].Number)
	assert.Empty(t, parsed.Course.Lessons[0].Link)
}

func TestParse_EmptyLessonDropped(t *testing.T) {
	raw := `Course Title: Gaps
Lesson 0: Empty One
Lesson 1: Full One
Actual text.
`
	parsed, err := New().Parse(raw)
	require.NoError(t, err)

	// Both lessons are catalogued even though only one has text.
	require.Len(t, parsed.Course.Lessons, 2)
	require.Len(t, parsed.Segments, 1)
	assert.Equal(t, 1, *parsed.Segments[0].LessonNumber)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	raw := strings.ReplaceAll(sampleTranscript, "\n", "\r\n")
	parsed, err := New().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Building Toward Computer Use", parsed.Course.Title)
	require.Len(t, parsed.Course.Lessons, 3)
}

func TestParse_HeaderFieldsInAnyOrder(t *testing.T) {
	raw := `Course Instructor: Ada
Course Title: Reordered
Course Link: https://example.com/r

Lesson 0: Start
Text.
`
	parsed, err := New().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Reordered", parsed.Course.Title)
	assert.Equal(t, "Ada", parsed.Course.Instructor)
}
