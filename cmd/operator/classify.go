package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/intent"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show the intent of a text and the rule that matched",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	text := strings.Join(args, " ")
	match := intent.NewClassifier().Explain(text)

	fmt.Fprintf(out, "intent:     %s\n", match.Intent)
	fmt.Fprintf(out, "mood delta: %+d\n", emotion.Delta(match.Intent))
	if match.Rule < 0 {
		fmt.Fprintln(out, "rule:       none (fallback)")
		return nil
	}
	fmt.Fprintf(out, "rule:       #%d %s\n", match.Rule, match.Pattern)
	fmt.Fprintf(out, "matched:    %q\n", match.Matched)
	return nil
}
