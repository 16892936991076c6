package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsphweid/pitchnamer/config"
	"github.com/jsphweid/pitchnamer/file"
	"github.com/jsphweid/pitchnamer/midi"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/report"
	"github.com/jsphweid/pitchnamer/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const displayLimit = 20

var (
	formatFlag    string
	outputDirFlag string
	fromFlag      int
	toFlag        int
	maxNumFlag    int
)

func init() {
	extractCmd.Flags().StringVar(&formatFlag, "format", "", "output format: text, positions or midi (default from config)")
	extractCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "directory to write to (default from config)")
	extractCmd.Flags().IntVar(&fromFlag, "from", 0, "first measure to include")
	extractCmd.Flags().IntVar(&toFlag, "to", 0, "last measure to include")
	extractCmd.Flags().IntVar(&maxNumFlag, "max", 0, "stop after this many files when walking directories")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <path>...",
	Short: "Writes the pitch names of scores",
	Long: `Writes the pitch names of every score given, walking directories for score
files. The text format lists names per measure, positions adds the beat and
tick of each name, midi writes the notes as a Standard MIDI File.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := extractJob{
			cfg:       cfg,
			format:    cfg.Format,
			outputDir: outputDirFlag,
			rng:       file.Range{From: fromFlag, To: toFlag},
		}
		if cmd.Flags().Changed("format") {
			job.format = config.Format(formatFlag)
		}
		paths, err := file.GatherAllScorePaths(args, maxNumFlag)
		if err != nil {
			return err
		}
		return job.Run(cmd.OutOrStdout(), paths)
	},
}

type extractJob struct {
	cfg       *config.Config
	format    config.Format
	outputDir string
	rng       file.Range
}

func (j extractJob) dir() string {
	if j.outputDir != "" {
		return j.outputDir
	}
	return j.cfg.Dir(j.format)
}

func (j extractJob) suffix() string {
	switch j.format {
	case config.FormatPositions:
		return "_pitches_with_position.txt"
	case config.FormatMidi:
		return ".mid"
	}
	return "_pitches.txt"
}

// Run extracts every path in turn and prints a summary to w.
func (j extractJob) Run(w io.Writer, paths []string) error {
	switch j.format {
	case config.FormatText, config.FormatPositions, config.FormatMidi:
	default:
		return errors.Errorf("unknown format %q (want text, positions or midi)", j.format)
	}

	counts := make([]int, 0, len(paths))
	for i, path := range paths {
		if len(paths) > 1 {
			fmt.Fprintf(w, "[%v/%v] %v\n", i+1, len(paths), path)
		}
		n, err := j.extract(w, path)
		if err != nil {
			return err
		}
		counts = append(counts, n)
	}
	if len(paths) > 1 {
		fmt.Fprintf(w, "Total pitches: %v\n", util.Sum(counts))
	}
	return nil
}

func (j extractJob) extract(w io.Writer, path string) (int, error) {
	src, err := file.Open(path, j.rng)
	if err != nil {
		return 0, err
	}
	labels := pitch.ExtractLabeledPitches(src.Occurrences())
	if len(labels) == 0 {
		fmt.Fprintln(w, "nothing to display")
		return 0, nil
	}

	display(w, src.Division(), labels)

	if err := util.EnsureDir(j.dir()); err != nil {
		return 0, err
	}
	out := file.OutputPath(j.dir(), path, j.suffix())
	if err := j.write(out, path, src, labels); err != nil {
		return 0, err
	}
	slog.Debug("wrote output", "score", path, "output", out, "format", j.format)
	fmt.Fprintf(w, "Wrote %v\n", out)
	return len(labels), nil
}

func (j extractJob) write(out, path string, src model.Source, labels []model.LabeledPitch) error {
	if j.format == config.FormatMidi {
		return midi.WriteFile(out, src.Occurrences(), midi.Options{
			Division: src.Division(),
			Tempo:    j.cfg.Tempo,
			Rebase:   j.rng.From > 1,
		})
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", out)
	}
	if j.format == config.FormatPositions {
		err = report.WritePositions(f, src.Division(), labels)
	} else {
		err = report.WriteText(f, filepath.Base(path), labels)
	}
	if err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "could not close %v", out)
}

func display(w io.Writer, division int, labels []model.LabeledPitch) {
	fmt.Fprintf(w, "Found %v pitches\n", len(labels))
	for i, l := range labels[:util.Min(displayLimit, len(labels))] {
		fmt.Fprintf(w, "%3v. %-3v %v\n", i+1, l.Name, report.Position(l, division))
	}
	if len(labels) > displayLimit {
		fmt.Fprintf(w, "... and %v more\n", len(labels)-displayLimit)
	}
}
