package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrname/pkg/release"
)

var matchCmd = &cobra.Command{
	Use:   "match <title> <candidate>...",
	Short: "Fuzzy-match a parsed title against candidate titles",
	Long: `Score a title against candidates and report the best match.

Examples:
  arrname match "Rocky 3" "Rocky III" "Rocky IV"
  arrname match "Amelie" "Amélie" --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMatchCmd,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	res := release.MatchTitle(args[0], args[1:])
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, []release.MatchResult{res})
	}
	_, _ = fmt.Fprintf(out, "Best:        %s\n", valueOrEmpty(res.Title))
	_, _ = fmt.Fprintf(out, "Score:       %.3f\n", res.Score)
	_, _ = fmt.Fprintf(out, "Confidence:  %s\n", res.Confidence)
	return nil
}
