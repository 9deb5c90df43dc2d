// Package ws is the session dispatcher: it upgrades connections,
// resolves their guild from the join request and routes inbound
// actions to the guild's handlers.
package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/SyncTube/internal/config"
	"github.com/dkeye/SyncTube/internal/core"
)

type Controller struct {
	cfg      *config.Config
	registry *core.Registry
}

func NewController(cfg *config.Config, registry *core.Registry) *Controller {
	return &Controller{cfg: cfg, registry: registry}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSync is the websocket entrypoint. The guild id comes from the
// ?guild= query parameter; without it the connection gets a GuildError
// and is never registered anywhere.
func (ctl *Controller) HandleSync(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	guildID := c.Query("guild")
	log.Info().Str("module", "ws").Str("sid", sid).Str("guild", guildID).Msg("new WS connection")

	socket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}

	if guildID == "" {
		_ = socket.WriteMessage(websocket.TextMessage, core.ErrorFrame(core.KindGuild, core.MsgGuildMissing))
		_ = socket.Close()
		return
	}

	socket.SetReadLimit(ctl.cfg.ReadLimit)
	conn := newConn(socket, ctl.cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)

	guild := ctl.registry.Join(guildID, conn)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, guildID, guild, conn)
	}()
}
