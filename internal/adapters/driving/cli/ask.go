package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed courses",
	Long: `Answers one question using the indexed course materials.

The assistant searches course content when needed and cites the courses
and lessons it drew from. Pass --session to continue a conversation
started by an earlier ask.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session ID to continue")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	answer, err := assistantService.ProcessQuery(cmd.Context(), args[0], askSession)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			if src.URL != "" {
				cmd.Printf("  - %s (%s)\n", src.Text, src.URL)
			} else {
				cmd.Printf("  - %s\n", src.Text)
			}
		}
	}

	cmd.Printf("\nSession: %s\n", answer.SessionID)
	return nil
}
