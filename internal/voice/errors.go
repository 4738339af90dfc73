package voice

import "fmt"

// Platform error codes reported through Listener.Error.
const (
	CodeNotAllowed       = "not-allowed"
	CodePermissionDenied = "permission-denied"
	CodeNetwork          = "network"
	CodeNoSpeech         = "no-speech"
	CodeAborted          = "aborted"
)

// ErrorKind classifies a capture failure.
type ErrorKind string

const (
	KindUnsupported ErrorKind = "unsupported"
	KindPermission  ErrorKind = "permission"
	KindNetwork     ErrorKind = "network"
	KindStartFailed ErrorKind = "start_failed"
	KindUnknown     ErrorKind = "unknown"
)

// CaptureError is the user-facing description of why capture stopped.
type CaptureError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
}

func (e *CaptureError) Error() string { return e.Message }

func unsupported() *CaptureError {
	return &CaptureError{Kind: KindUnsupported, Message: "Voice not supported on this device."}
}

func startFailed(err error) *CaptureError {
	return &CaptureError{
		Kind:    KindStartFailed,
		Code:    err.Error(),
		Message: "Could not start microphone. Try again.",
	}
}

// Classify maps a platform error code to a CaptureError. It returns nil for
// codes that are not failures: no-speech keeps listening and aborted is what
// an explicit stop produces.
func Classify(code string) *CaptureError {
	switch code {
	case CodeNoSpeech, CodeAborted:
		return nil
	case CodeNotAllowed, CodePermissionDenied:
		return &CaptureError{Kind: KindPermission, Code: code,
			Message: "Mic blocked. Allow microphone access in your settings."}
	case CodeNetwork:
		return &CaptureError{Kind: KindNetwork, Code: code,
			Message: "Network error. Voice needs an internet connection."}
	default:
		return &CaptureError{Kind: KindUnknown, Code: code,
			Message: fmt.Sprintf("Voice error: %s. Try again.", code)}
	}
}
