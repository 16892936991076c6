package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/jsphweid/pitchnamer/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configPath string
	debug      bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "pitchnamer",
	Short: "Names the pitches in a score",
	Long: `Reads MuseScore (.mscx, .mscz) and MusicXML (.musicxml, .xml, .mxl) scores,
spells every pitch by its tonal pitch class and writes the names out as text,
MIDI or a labeled copy of the score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output with source positions")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

// Run executes the command line in args with command output going to out.
// Flags start from their defaults on every call.
func Run(args []string, out io.Writer) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
