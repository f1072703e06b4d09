package tools

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedSequences = map[string]passes.Sequence{
	passes.Textual.Name():    passes.Textual,
	passes.Evaluation.Name(): passes.Evaluation,
}

// writeSequence lists the passes of seq in execution order, with the pass
// whose output each one is checked against
func writeSequence(w io.Writer, seq passes.Sequence) {
	fmt.Fprintf(w, "%v (%v passes):\n", seq.Name(), seq.Len())

	for i, p := range seq.Passes() {
		next, err := seq.Next(p)
		if err != nil {
			fmt.Fprintf(w, "  %2d %-6v\n", i, p)
		} else {
			fmt.Fprintf(w, "  %2d %-6v -> %v\n", i, p, next)
		}
	}
}

func newPassesCmd() *cobra.Command {
	passesCmd := &cobra.Command{
		Use:   "passes [sequence]",
		Short: "List the compiler passes in the order they are tested",
		Long: `Lists the passes of a pass sequence in execution order. Without arguments all
sequences are listed.

Supported sequences:
` + strings.Join(utils.Map(utils.SortedKeys(supportedSequences), func(name string) string { return "  " + name }), "\n"),
		Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.MaximumNArgs(1)),
		ValidArgs: utils.SortedKeys(supportedSequences),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = utils.SortedKeys(supportedSequences)
			}

			out := cmd.OutOrStdout()
			outputFile, _ := cmd.Flags().GetString("output")
			if outputFile != "" {
				file, err := os.Create(outputFile)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}

			for i, name := range names {
				if i > 0 {
					fmt.Fprintln(out)
				}
				writeSequence(out, supportedSequences[name])
			}

			return nil
		},
	}

	passesCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the list is dumped to stdout.")
	return passesCmd
}
