package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earshot/earshot/pkg/audio"
	"github.com/earshot/earshot/pkg/voiceprint"
)

var verifyChunkSize int

var verifyCmd = &cobra.Command{
	Use:   "verify <audio-file>",
	Short: "Check a recording against the enrolled voiceprint",
	Long: `Score a raw PCM16 recording against the enrolled owner voiceprint.

A similarity below the verify threshold reports verified: false rather
than failing the command.

Example:
  EARSHOT_VOICE_KEY=secret earshot verify sample.pcm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, err := readFrames(args[0], verifyChunkSize)
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

		similarity, err := a.VerifyOwner(frames, a.SampleRate())
		verified := err == nil
		if err != nil && !errors.Is(err, voiceprint.ErrSpeakerMismatch) {
			return err
		}

		return outputResult(map[string]any{
			"verified":   verified,
			"similarity": similarity,
		})
	},
}

func init() {
	verifyCmd.Flags().IntVar(&verifyChunkSize, "chunk", 2*audio.FrameSamples, "frame size in bytes")
}
