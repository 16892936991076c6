package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(nameCmd)
}

var nameCmd = &cobra.Command{
	Use:   "name <tpc>...",
	Short: "Prints the spelled name of tonal pitch classes",
	Long:  `Prints the spelled name of tonal pitch classes, where 25 is C, 26 G and 24 F.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNames(cmd.OutOrStdout(), args)
	},
}

func printNames(w io.Writer, args []string) error {
	for _, arg := range args {
		tpc, err := strconv.Atoi(arg)
		if err != nil {
			return errors.Errorf("%q is not a tonal pitch class", arg)
		}
		fmt.Fprintf(w, "%v\t%v\n", tpc, pitch.NameForTpc(tpc))
	}
	return nil
}
