package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jsphweid/pitchnamer/file"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/score"
	"github.com/jsphweid/pitchnamer/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	annotateCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "directory to write to (default from config)")
	rootCmd.AddCommand(annotateCmd)
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <path>",
	Short: "Writes a copy of a MuseScore file with every chord named",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := outputDirFlag
		if dir == "" {
			dir = cfg.OutputDir
		}
		return annotate(cmd.OutOrStdout(), args[0], dir)
	},
}

func annotate(w io.Writer, path, dir string) error {
	kind, ok := file.KindOf(path)
	if !ok || !kind.IsMuseScore() {
		return errors.Errorf("%v is not a MuseScore file", path)
	}

	doc, err := score.Open(path, score.Options{})
	if err != nil {
		return err
	}
	labels := pitch.ExtractLabeledPitches(doc.Occurrences())
	if len(labels) == 0 {
		fmt.Fprintln(w, "nothing to display")
		return nil
	}
	applied := doc.ApplyLabels(labels)
	slog.Debug("labeled score", "score", path, "measures", doc.Measures(), "labels", len(labels), "applied", applied)

	if err := util.EnsureDir(dir); err != nil {
		return err
	}
	out := file.OutputPath(dir, path, "_labeled.mscx")
	if err := doc.Save(out); err != nil {
		return err
	}
	fmt.Fprintf(w, "Labeled %v chords\nWrote %v\n", applied, out)
	return nil
}
