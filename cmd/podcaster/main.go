// Podcaster turns a topic into a short two-voice podcast episode: a
// completion model writes six lines of dialogue, a speech backend voices
// them alternately as host and guest, and the segments are joined into
// one WAV track.
//
// Usage:
//
//	podcaster generate "space exploration" --output episode.wav
//	podcaster serve --config /path/to/podcaster.yaml
//
// @title       Podcaster API
// @version     1.0
// @description Generates two-voice podcast episodes from a topic.
// @BasePath    /
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// cfgFile is the --config flag shared by every command.
var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "podcaster",
		Short: "Podcaster - topic to two-voice podcast",
		Long: `Podcaster writes a six-line dialogue about a topic with an LLM,
voices it with a host and a guest voice and exports the episode as WAV.

A .env file in the working directory is loaded before configuration.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (e.g. configs/podcaster.yaml)")

	root.AddCommand(generateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "podcaster %s\n", version)
		},
	}
}
