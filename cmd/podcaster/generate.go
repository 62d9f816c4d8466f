package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadzzz/podcaster/internal/pipeline"
	"github.com/nadzzz/podcaster/internal/podcast"
)

func generateCmd() *cobra.Command {
	var req podcast.Request

	cmd := &cobra.Command{
		Use:   "generate [topic...]",
		Short: "Generate one podcast episode from the command line",
		Long: `Generate writes the raw script to --transcript and the episode to --output.

Examples:
  podcaster generate space exploration
  podcaster generate "the history of jazz" --output jazz.wav --provider openai`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Topic = strings.Join(args, " ")
			return runGenerate(cmd, req)
		},
	}

	cmd.Flags().StringVarP(&req.OutputAudio, "output", "o", pipeline.DefaultAudioPath, "path of the exported WAV file")
	cmd.Flags().StringVarP(&req.OutputScript, "transcript", "t", pipeline.DefaultScriptPath, "path the raw script is written to")
	cmd.Flags().StringVar(&req.HostVoice, "host-voice", "", "voice id of the host (default from config)")
	cmd.Flags().StringVar(&req.GuestVoice, "guest-voice", "", "voice id of the guest (default from config)")
	cmd.Flags().StringVar(&req.Model, "model", "", "completion model (default from config)")
	cmd.Flags().StringVarP(&req.Provider, "provider", "p", "", "completion provider: groq, openai or local")

	return cmd
}

func runGenerate(cmd *cobra.Command, req podcast.Request) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if req.Provider != "" {
		cfg.LLM.Provider = req.Provider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	c, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating podcast about %q...\n", req.Topic)

	res, err := c.pipeline.Generate(ctx, req)
	if err != nil {
		var verr *podcast.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "Script saved to %s\n", req.OutputScript)
		}
		return err
	}

	fmt.Fprintf(out, "Script saved to %s\n", res.ScriptPath)
	if skipped := res.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d line(s): %v\n", len(skipped), skipped)
	}
	fmt.Fprintf(out, "Podcast saved to %s (%s, %d segments)\n", res.AudioPath, res.Duration.Round(10*time.Millisecond), res.Segments())
	if res.AudioURL != "" {
		fmt.Fprintf(out, "Published: %s\n           %s\n", res.ScriptURL, res.AudioURL)
	}
	return nil
}
