package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earshot/earshot/pkg/audio"
)

var (
	transcribeChunkSize int
	transcribeStream    bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a recording through the routed backends",
	Long: `Transcribe a raw PCM16 recording through the local-first,
confidence-gated router. With --stream, frames are fed through the
streaming collection path with its bounded wait.

Example:
  EARSHOT_VOICE_KEY=secret earshot transcribe command.pcm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, err := readFrames(args[0], transcribeChunkSize)
		if err != nil {
			return err
		}
		if len(frames) == 0 {
			return fmt.Errorf("audio file %s is empty", args[0])
		}

		a, err := buildAgent(audio.SliceSource())
		if err != nil {
			return err
		}
		defer a.Close()

		run := func() (text string, confidence float64, source string, latency float64, err error) {
			if transcribeStream {
				q := audio.NewQueueSource(len(frames))
				for _, f := range frames {
					if err := q.Push(f); err != nil {
						return "", 0, "", 0, err
					}
				}
				q.CloseWrite()
				res, err := a.TranscribeStreaming(cmd.Context(), q, a.SampleRate())
				return res.Text, res.Confidence, res.Source, res.LatencyMS, err
			}
			res, err := a.Transcribe(cmd.Context(), frames, a.SampleRate())
			return res.Text, res.Confidence, res.Source, res.LatencyMS, err
		}

		text, confidence, source, latency, err := run()
		if err != nil {
			return err
		}
		return outputResult(map[string]any{
			"text":       text,
			"confidence": confidence,
			"source":     source,
			"latency_ms": latency,
		})
	},
}

func init() {
	transcribeCmd.Flags().IntVar(&transcribeChunkSize, "chunk", 2*audio.FrameSamples, "frame size in bytes")
	transcribeCmd.Flags().BoolVar(&transcribeStream, "stream", false, "use the streaming collection path")
}
