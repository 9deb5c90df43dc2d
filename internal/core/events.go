package core

import (
	"encoding/json"

	"github.com/dkeye/SyncTube/internal/domain"
	"github.com/rs/zerolog/log"
)

// MemberInfo is the per-member entry of a users event.
type MemberInfo struct {
	ID string `json:"id"`
	domain.Profile
	Finished bool `json:"finished"`
}

type stateEvent struct {
	Event string `json:"event"`
	domain.MediaState
}

type queueEvent struct {
	Event string             `json:"event"`
	Queue []domain.QueueItem `json:"queue"`
}

type usersEvent struct {
	Event string       `json:"event"`
	Count int          `json:"count"`
	Users []MemberInfo `json:"users"`
}

type errorEvent struct {
	Event   string `json:"event"`
	Error   Kind   `json:"error"`
	Message string `json:"message"`
}

// ErrorFrame serializes an error event for a single connection.
func ErrorFrame(kind Kind, message string) []byte {
	return marshalEvent(errorEvent{Event: "error", Error: kind, Message: message})
}

func marshalEvent(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "core.events").Msg("marshal event")
		return nil
	}
	return b
}
