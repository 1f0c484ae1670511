package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey"
	"github.com/aretw0/notey/pkg/session"
)

var (
	verbose    bool
	storePath  string
	adapter    string
	codec      string
	configFile string
)

// settleTimeout bounds how long a mutating command waits for its save status.
const settleTimeout = 10 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notey",
	Short: "A single-user note store for plain text, Markdown and rich notes",
	Long: `Notey keeps a collection of notes in a local store.
Notes are plain text, Markdown or rich formatted text; Markdown is previewed
as sanitized HTML and rich notes round-trip between HTML and Markdown.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Notebook directory (default: nearest .notey or $HOME/.notey)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&codec, "codec", "", "Stored encoding: json or yaml")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a notey.yaml config file")
}

// openNotebook opens the notebook selected by the persistent flags.
func openNotebook(extra ...notey.Option) (*notey.Notebook, error) {
	path := storePath
	if path == "" {
		path = notey.DefaultStorePath()
	}

	opts := []notey.Option{notey.WithLogger(slog.Default())}
	if adapter != "" {
		opts = append(opts, notey.WithAdapter(adapter))
	}
	if codec != "" {
		opts = append(opts, notey.WithCodec(codec))
	}
	if configFile != "" {
		opts = append(opts, notey.WithConfigFile(configFile))
	}
	opts = append(opts, extra...)

	return notey.New(path, opts...)
}

// settle waits for the save status to leave "saving" and reports a failed save.
func settle(nb *notey.Notebook) {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	if err := nb.WaitSettled(ctx); err != nil {
		slog.Warn("save status did not settle", "error", err)
		return
	}
	if st := nb.Status(); st != session.StatusSaved {
		slog.Warn("changes were not persisted", "status", string(st))
	}
}
