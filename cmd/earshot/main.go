// Package main provides the earshot CLI.
//
// Usage:
//
//	earshot [flags] <command> [args]
//
// Commands:
//
//	enroll      - Enroll the owner voiceprint from a recording
//	listen      - Run the wake/capture/verify pipeline over a recording
//	verify      - Check a recording against the enrolled voiceprint
//	transcribe  - Transcribe a recording through the routed backends
//	version     - Print version information
//
// Configuration:
//
//	Settings live in the user config directory (earshot/config.yaml).
//	The voiceprint secret comes from the EARSHOT_VOICE_KEY environment
//	variable.
package main

import (
	"fmt"
	"os"

	"github.com/earshot/earshot/cmd/earshot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
