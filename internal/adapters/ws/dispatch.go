package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/SyncTube/internal/core"
	"github.com/dkeye/SyncTube/internal/domain"
)

// Per-action payloads. Pointer fields distinguish an absent key from a
// zero value; a wrong JSON type fails the decode and becomes a
// RequestError instead of undefined behavior.
type setProfilePayload struct {
	Name       *string `json:"name"`
	Identifier *string `json:"identifier"`
	Art        *string `json:"art"`
}

type addPayload struct {
	VideoID *string `json:"video_id"`
	Query   *string `json:"query"`
}

type removePayload struct {
	Index *int `json:"index"`
}

type jumpPayload struct {
	Index *int `json:"index"`
	Time  *int `json:"time"`
}

// handleMessage decodes one inbound message and routes it. Any failure
// is reported to the originating connection only; other members never
// see it and the guild keeps running.
func (ctl *Controller) handleMessage(ctx context.Context, sid string, guild *core.Guild, c *wsConn, data []byte) {
	err := ctl.dispatch(ctx, guild, c, data)
	if err == nil {
		return
	}
	var ae *core.ActionError
	if errors.As(err, &ae) {
		log.Warn().Str("module", "ws").Str("sid", sid).Str("kind", string(ae.Kind)).Str("message", ae.Message).Msg("request rejected")
	} else {
		log.Error().Err(err).Str("module", "ws").Str("sid", sid).Msg("handler failed")
		ae = core.Errf(core.KindInternal, core.MsgInternalError)
	}
	_ = c.TrySend(ae.Frame())
}

func (ctl *Controller) dispatch(ctx context.Context, guild *core.Guild, c *wsConn, data []byte) (err error) {
	// An unexpected fault must not take down the read pump or the
	// guild; it surfaces as a generic error to the sender.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in action handler: %v", r)
		}
	}()

	var env struct {
		Action *string `json:"action"`
	}
	if jsonErr := json.Unmarshal(data, &env); jsonErr != nil || env.Action == nil {
		return core.Errf(core.KindRequest, core.MsgNoAction)
	}

	switch *env.Action {
	case "set_profile":
		var p setProfilePayload
		if jsonErr := json.Unmarshal(data, &p); jsonErr != nil {
			return core.Errf(core.KindRequest, core.MsgMalformed)
		}
		// Absent keys clear the stored field back to its default.
		profile := domain.Profile{}
		if p.Name != nil {
			profile.Name = *p.Name
		}
		if p.Identifier != nil {
			profile.Identifier = *p.Identifier
		}
		if p.Art != nil {
			profile.Art = *p.Art
		}
		return guild.SetProfile(c, profile)

	case "play", "pause":
		return guild.PlayPause(c, *env.Action == "play")

	case "add":
		var p addPayload
		if jsonErr := json.Unmarshal(data, &p); jsonErr != nil {
			return core.Errf(core.KindRequest, core.MsgMalformed)
		}
		if p.VideoID == nil && p.Query == nil {
			return core.Errf(core.KindRequest, core.MsgMalformed)
		}
		var videoID, query string
		if p.VideoID != nil {
			videoID = *p.VideoID
		}
		if p.Query != nil {
			query = *p.Query
		}
		return guild.Add(ctx, c, videoID, query)

	case "remove":
		var p removePayload
		if jsonErr := json.Unmarshal(data, &p); jsonErr != nil || p.Index == nil {
			return core.Errf(core.KindRequest, core.MsgMalformed)
		}
		return guild.Remove(c, *p.Index)

	case "jump":
		var p jumpPayload
		if jsonErr := json.Unmarshal(data, &p); jsonErr != nil || p.Index == nil {
			return core.Errf(core.KindRequest, core.MsgMalformed)
		}
		seek := 0
		if p.Time != nil {
			seek = *p.Time
		}
		return guild.Jump(c, *p.Index, seek)

	case "finished":
		return guild.MarkFinished(c)

	default:
		return core.Errf(core.KindRequest, core.MsgInvalidAction)
	}
}
