package commands

import (
	"github.com/spf13/cobra"

	"github.com/earshot/earshot/pkg/audio"
)

var (
	listenChunkSize  int
	listenTranscribe bool
)

var listenCmd = &cobra.Command{
	Use:   "listen <audio-file>",
	Short: "Run the wake/capture/verify pipeline over a recording",
	Long: `Stream a raw PCM16 recording through the full pipeline: scan for the
wake word, capture the command, check guardrails, and verify the
speaker against the enrolled voiceprint.

With --transcribe, the verified capture is also routed through the
transcription tiers.

Example:
  EARSHOT_VOICE_KEY=secret earshot listen session.pcm --transcribe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, err := readFrames(args[0], listenChunkSize)
		if err != nil {
			return err
		}

		a, err := buildAgent(audio.SliceSource(frames...))
		if err != nil {
			return err
		}
		defer a.Close()

		verified, err := a.ListenForCommand(cmd.Context())
		if err != nil {
			return err
		}

		result := map[string]any{
			"frames":      len(verified.Frames),
			"duration_ms": verified.Duration().Milliseconds(),
			"metrics":     a.Snapshot(),
		}
		if listenTranscribe {
			res, err := a.Transcribe(cmd.Context(), verified.Frames, verified.SampleRate)
			if err != nil {
				return err
			}
			result["transcription"] = map[string]any{
				"text":       res.Text,
				"confidence": res.Confidence,
				"source":     res.Source,
			}
		}
		return outputResult(result)
	},
}

func init() {
	listenCmd.Flags().IntVar(&listenChunkSize, "chunk", 2*audio.FrameSamples, "frame size in bytes")
	listenCmd.Flags().BoolVar(&listenTranscribe, "transcribe", false, "transcribe the verified capture")
}
