package domain

// SearchOptions configures a content search.
type SearchOptions struct {
	// CourseName is an optional course filter. It may be a partial or
	// fuzzy title; it is resolved against the catalog before searching.
	CourseName string

	// LessonNumber is an optional lesson filter.
	LessonNumber *int

	// Limit is the maximum number of results. Zero means the
	// configured default.
	Limit int
}

// SearchResult is a single content hit.
type SearchResult struct {
	// Content is the matched chunk text.
	Content string

	// CourseTitle is the exact catalog title of the matched course.
	CourseTitle string

	// LessonNumber is the lesson the chunk came from, nil for front matter.
	LessonNumber *int

	// ChunkIndex is the chunk's position within its course.
	ChunkIndex int

	// Score is the cosine similarity against the query, higher is better.
	Score float64
}

// SearchResultSet carries the outcome of a content search.
// The three states are distinct: Err is set when the search could not
// run (unresolvable course filter, index failure), an empty Results
// slice means the search ran and matched nothing, and a non-empty
// Results slice is a hit.
type SearchResultSet struct {
	Results []SearchResult
	Err     error
}

// Failed reports whether the search could not be executed.
func (s SearchResultSet) Failed() bool { return s.Err != nil }

// Empty reports whether the search ran but matched nothing.
func (s SearchResultSet) Empty() bool { return s.Err == nil && len(s.Results) == 0 }
