package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

var (
	searchCourse string
	searchLesson int
	searchLimit  int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed course content",
	Long: `Performs semantic search over the indexed course content.

The course filter accepts partial titles; it is resolved against the
catalog before searching, so 'mcp' finds 'Introduction to MCP'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCourse, "course", "c", "", "restrict to one course (partial titles work)")
	searchCmd.Flags().IntVarP(&searchLesson, "lesson", "l", 0, "restrict to one lesson number")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		CourseName: searchCourse,
		Limit:      searchLimit,
	}
	if searchLesson > 0 {
		lesson := searchLesson
		opts.LessonNumber = &lesson
	}

	set := searchService.Search(cmd.Context(), query, opts)
	if set.Failed() {
		return fmt.Errorf("search failed: %w", set.Err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, set.Results)
	}
	return outputSearchTable(cmd, set.Results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		label := results[i].CourseTitle
		if results[i].LessonNumber != nil {
			label = fmt.Sprintf("%s - Lesson %d", label, *results[i].LessonNumber)
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, results[i].Score)

		snippet := results[i].Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("      %s\n", snippet)
		cmd.Println()
	}

	return nil
}
