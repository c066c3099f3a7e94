package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earshot/earshot/pkg/audio"
)

var enrollChunkSize int

var enrollCmd = &cobra.Command{
	Use:   "enroll <audio-file>",
	Short: "Enroll the owner voiceprint from a raw audio recording",
	Long: `Enroll the owner voiceprint from a raw PCM16 recording.

The file is split into fixed-size frames, embedded, and persisted as
the owner voiceprint. Re-running enroll replaces the prior profile.

Example:
  EARSHOT_VOICE_KEY=secret earshot enroll owner.pcm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, err := readFrames(args[0], enrollChunkSize)
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

		embedding, err := a.EnrollOwner(frames, a.SampleRate())
		if err != nil {
			return err
		}

		path, _ := settings.ResolveVoiceprintPath()
		return outputResult(map[string]any{
			"voiceprint":       path,
			"frames":           len(frames),
			"embedding_length": len(embedding),
		})
	},
}

func init() {
	enrollCmd.Flags().IntVar(&enrollChunkSize, "chunk", 2*audio.FrameSamples, "frame size in bytes")
}
