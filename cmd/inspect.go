package cmd

import (
	"io"

	"github.com/jsphweid/pitchnamer/file"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/report"
	"github.com/spf13/cobra"
)

func init() {
	inspectCmd.Flags().IntVar(&fromFlag, "from", 0, "first measure to include")
	inspectCmd.Flags().IntVar(&toFlag, "to", 0, "last measure to include")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Prints every labeled pitch of a score with its position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args[0], file.Range{From: fromFlag, To: toFlag})
	},
}

func inspect(w io.Writer, path string, rng file.Range) error {
	src, err := file.Open(path, rng)
	if err != nil {
		return err
	}
	labels := pitch.ExtractLabeledPitches(src.Occurrences())
	return report.WritePositions(w, src.Division(), labels)
}
