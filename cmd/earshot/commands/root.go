// Package commands implements the earshot CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/earshot/earshot/cmd/earshot/internal/config"
	"github.com/earshot/earshot/pkg/agent"
	"github.com/earshot/earshot/pkg/audio"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Global configuration
	settings *config.Settings
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "earshot",
	Short: "Voice-activated command pipeline",
	Long: `Earshot - wake word detection, speaker verification, and transcription.

The pipeline listens for a wake word on an audio stream, captures the
command that follows, verifies the speaker against the enrolled owner
voiceprint, and transcribes the verified audio through a local-first,
confidence-gated router.

The voiceprint secret comes from the ` + config.EnvSecret + ` environment
variable. Configuration is stored in the user config directory
(~/.config/earshot/config.yaml on Linux).

Examples:
  # Enroll the owner from a raw PCM16 recording
  EARSHOT_VOICE_KEY=secret earshot enroll owner.pcm

  # Run the full pipeline over a recording
  EARSHOT_VOICE_KEY=secret earshot listen session.pcm --transcribe

  # Check a recording against the enrolled voiceprint
  EARSHOT_VOICE_KEY=secret earshot verify sample.pcm`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/earshot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	if cfgFile != "" {
		settings, err = config.LoadFrom(cfgFile)
	} else {
		settings, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: earshot config: %v\n", err)
		settings = &config.Settings{}
	}
}

// buildAgent assembles the pipeline from CLI settings over the given
// source.
func buildAgent(source audio.Source) (*agent.Agent, error) {
	path, err := settings.ResolveVoiceprintPath()
	if err != nil {
		return nil, err
	}
	return agent.New(agent.Config{
		WakeWord:                 settings.WakeWord,
		SampleRate:               settings.SampleRate,
		StoreBackend:             settings.StoreBackend,
		VoiceprintPath:           path,
		Secret:                   config.Secret(),
		VerifyThreshold:          settings.VerifyThreshold,
		LocalConfidenceThreshold: settings.LocalConfidenceThreshold,
		RemoteEndpoint:           settings.RemoteEndpoint,
		RemoteAPIKey:             settings.RemoteAPIKey,
		SilenceAfterFrames:       settings.SilenceAfterFrames,
		MaxCommandSeconds:        settings.MaxCommandSeconds,
		StreamTimeout:            settings.StreamTimeout,
	}, source)
}

// readFrames reads a raw audio file and splits it into chunkSize-byte
// frames (the last frame may be shorter).
func readFrames(path string, chunkSize int) ([]audio.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if chunkSize <= 0 {
		chunkSize = 2 * audio.FrameSamples
	}

	var frames []audio.Frame
	for off := 0; off < len(data); off += chunkSize {
		end := min(off+chunkSize, len(data))
		frames = append(frames, audio.Frame(data[off:end]))
	}
	return frames, nil
}

// outputResult renders the result as YAML, or JSON with --json.
func outputResult(result any) error {
	var (
		data []byte
		err  error
	)
	if outputJSON {
		data, err = json.MarshalIndent(result, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
