package core

// Kind mirrors the wire error taxonomy sent in error events.
type Kind string

const (
	KindGuild        Kind = "GuildError"
	KindRequest      Kind = "RequestError"
	KindInvalidVideo Kind = "InvalidVideoError"
	KindIndex        Kind = "IndexError"
	KindTimeLimit    Kind = "TimeLimitExceededError"
	KindInternal     Kind = "Error"
)

// Canonical messages reported to clients.
const (
	MsgNoAction      = "No action given."
	MsgInvalidAction = "Invalid action given."
	MsgMalformed     = "Malformed request."
	MsgGuildMissing  = "Guild not specified in path."
	MsgInvalidVideo  = "The video ID provided was not a valid video."
	MsgIndexBounds   = "The index provided is out of bounds."
	MsgJumpBounds    = "The index provided is out of bounds of the queue."
	MsgTimeLimit     = "The seek time specified is greater than the length of the video."
	MsgInternalError = "An unexpected error occurred."
)

// ActionError is a validation or lookup failure recovered at the
// handler boundary and reported to the originating connection only.
type ActionError struct {
	Kind    Kind
	Message string
}

func (e *ActionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func Errf(kind Kind, message string) *ActionError {
	return &ActionError{Kind: kind, Message: message}
}

// Frame serializes the error as an error event for a single connection.
func (e *ActionError) Frame() []byte {
	return ErrorFrame(e.Kind, e.Message)
}
