package domain

// Course represents a single course extracted from a transcript file.
// Title is the identity: two transcripts with the same title describe
// the same course and only the first ingested one is kept.
type Course struct {
	// Title is the course title and the primary key for the catalog.
	Title string

	// Link is the canonical URL of the course, if the transcript has one.
	Link string

	// Instructor is the course instructor, if the transcript has one.
	Instructor string

	// Lessons are the lessons in transcript order.
	Lessons []Lesson
}

// Lesson is a numbered section of a course.
type Lesson struct {
	// Number is the lesson number as written in the transcript.
	Number int

	// Title is the lesson title.
	Title string

	// Link is the lesson URL, if the transcript has one.
	Link string
}

// FindLesson returns the lesson with the given number, or nil.
func (c *Course) FindLesson(number int) *Lesson {
	for i := range c.Lessons {
		if c.Lessons[i].Number == number {
			return &c.Lessons[i]
		}
	}
	return nil
}

// CourseChunk is an indexable fragment of course content.
// Content already carries the contextual prefix naming the course
// and lesson, so a chunk is meaningful on its own.
type CourseChunk struct {
	// CourseTitle links the chunk back to its course.
	CourseTitle string

	// LessonNumber is the lesson the chunk came from.
	// Nil for front matter before the first lesson marker.
	LessonNumber *int

	// Index is the position of the chunk within the course.
	// Indices are contiguous and zero-based across the whole course,
	// continuing across lesson boundaries.
	Index int

	// Content is the chunk text including the contextual prefix.
	Content string

	// Embedding is the vector for Content. Populated at index time.
	Embedding []float32
}

// CourseOutline is the structural summary returned by the outline lookup.
type CourseOutline struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}
