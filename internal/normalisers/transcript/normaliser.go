// Package transcript parses course transcript files.
//
// A transcript is a plain text file with a fixed header grammar:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<lesson text...>
//
//	Lesson 1: ...
//
// Title is mandatory; link and instructor are optional. Text between
// the header and the first lesson marker is kept as front matter with
// no lesson number.
package transcript

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

var (
	titleRe      = regexp.MustCompile(`^Course Title:\s*(.+)$`)
	linkRe       = regexp.MustCompile(`^Course Link:\s*(.+)$`)
	instructorRe = regexp.MustCompile(`^Course Instructor:\s*(.+)$`)
	lessonRe     = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.+)$`)
	lessonLinkRe = regexp.MustCompile(`^Lesson Link:\s*(.+)$`)
)

// Segment is a run of transcript text belonging to one lesson.
// LessonNumber is nil for front matter before the first lesson marker.
type Segment struct {
	LessonNumber *int
	Text         string
}

// Transcript is the parsed form of one transcript file.
type Transcript struct {
	// Course is the extracted metadata: title, links, lesson list.
	Course domain.Course

	// Segments holds the lesson texts in file order, front matter
	// first when present.
	Segments []Segment
}

// Parser parses course transcripts.
type Parser struct{}

// New creates a new transcript parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses a raw transcript. A transcript without a course title
// is rejected whole with domain.ErrMalformedDocument; no partial
// course is returned.
func (p *Parser) Parse(raw string) (*Transcript, error) {
	var (
		course  domain.Course
		segs    []Segment
		current *segmentBuilder
	)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inHeader := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if m := lessonRe.FindStringSubmatch(line); m != nil {
			number, err := strconv.Atoi(m[1])
			if err != nil {
				// Unreachable with the \d+ pattern, but strconv still
				// rejects out-of-range values.
				return nil, fmt.Errorf("%w: lesson number %q", domain.ErrMalformedDocument, m[1])
			}
			inHeader = false
			if current != nil {
				segs = appendSegment(segs, current)
			}
			course.Lessons = append(course.Lessons, domain.Lesson{
				Number: number,
				Title:  strings.TrimSpace(m[2]),
			})
			current = &segmentBuilder{lesson: &course.Lessons[len(course.Lessons)-1]}
			continue
		}

		// Lesson link lines annotate the current lesson, they are not
		// part of its text.
		if current != nil && current.lesson != nil && current.empty() {
			if m := lessonLinkRe.FindStringSubmatch(line); m != nil {
				current.lesson.Link = strings.TrimSpace(m[1])
				continue
			}
		}

		if inHeader {
			switch {
			case titleRe.MatchString(line):
				course.Title = strings.TrimSpace(titleRe.FindStringSubmatch(line)[1])
				continue
			case linkRe.MatchString(line):
				course.Link = strings.TrimSpace(linkRe.FindStringSubmatch(line)[1])
				continue
			case instructorRe.MatchString(line):
				course.Instructor = strings.TrimSpace(instructorRe.FindStringSubmatch(line)[1])
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			// First body line before any lesson marker: front matter.
			inHeader = false
			current = &segmentBuilder{}
		}

		if current == nil {
			current = &segmentBuilder{}
		}
		current.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if current != nil {
		segs = appendSegment(segs, current)
	}

	if course.Title == "" {
		return nil, fmt.Errorf("%w: missing course title", domain.ErrMalformedDocument)
	}

	return &Transcript{Course: course, Segments: segs}, nil
}

// segmentBuilder accumulates the lines of one segment.
type segmentBuilder struct {
	lesson *domain.Lesson
	lines  []string
}

func (b *segmentBuilder) add(line string) {
	b.lines = append(b.lines, line)
}

func (b *segmentBuilder) empty() bool {
	for _, l := range b.lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// appendSegment flushes a builder, dropping segments that contain no
// text. Lesson metadata is already recorded on the course either way.
func appendSegment(segs []Segment, b *segmentBuilder) []Segment {
	text := strings.TrimSpace(strings.Join(b.lines, "\n"))
	if text == "" {
		return segs
	}
	seg := Segment{Text: text}
	if b.lesson != nil {
		number := b.lesson.Number
		seg.LessonNumber = &number
	}
	return append(segs, seg)
}
