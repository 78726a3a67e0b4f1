package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the indexed courses",
	RunE:  runCourses,
}

var outlineCmd = &cobra.Command{
	Use:   "outline [course]",
	Short: "Show a course outline",
	Long: `Shows a course's title, link, instructor and lesson list.

The course name may be partial; it is resolved against the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(outlineCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	titles, err := searchService.CourseTitles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	if len(titles) == 0 {
		cmd.Println("No courses indexed. Run 'courseqa ingest <folder>' first.")
		return nil
	}

	cmd.Printf("Indexed courses (%d):\n", len(titles))
	for _, title := range titles {
		cmd.Printf("  - %s\n", title)
	}
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	outline, err := searchService.Outline(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("outline: %w", err)
	}

	cmd.Printf("%s\n", outline.Title)
	if outline.Instructor != "" {
		cmd.Printf("Instructor: %s\n", outline.Instructor)
	}
	if outline.Link != "" {
		cmd.Printf("Link: %s\n", outline.Link)
	}
	cmd.Printf("Lessons (%d):\n", len(outline.Lessons))
	for _, lesson := range outline.Lessons {
		cmd.Printf("  %d. %s\n", lesson.Number, lesson.Title)
	}
	return nil
}
