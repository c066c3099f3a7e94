package listen

// State is the listener's position in the wake→capture→verify pipeline.
// Only Idle, Verified, and Rejected are observable between calls; the
// intermediate states exist while ListenForCommand is running.
type State int

const (
	// StateIdle means no listen call is in flight, or one is scanning
	// for the wake word.
	StateIdle State = iota

	// StateWakeDetected means the wake word just fired and capture is
	// about to begin.
	StateWakeDetected

	// StateCapturing means command frames are being buffered.
	StateCapturing

	// StateGuardrail means the capture is being checked for minimum
	// length and speech content.
	StateGuardrail

	// StateVerifying means the capture is with the speaker verifier.
	StateVerifying

	// StateVerified means the last call returned verified audio.
	StateVerified

	// StateRejected means the last call failed a guardrail or speaker
	// check.
	StateRejected
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWakeDetected:
		return "wake_detected"
	case StateCapturing:
		return "capturing"
	case StateGuardrail:
		return "guardrail"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
