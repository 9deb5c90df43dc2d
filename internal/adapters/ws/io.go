package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dkeye/SyncTube/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ping := time.NewTicker(ctl.cfg.PingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "ws").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "ws").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid, guildID string, guild *core.Guild, c *wsConn) {
	defer func() {
		log.Info().Str("module", "ws").Str("sid", sid).Str("guild", guildID).Msg("readPump closing")
		ctl.registry.Leave(guildID, c)
		c.Close()
	}()

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PingPeriod * 2))
	})
	limiter := rate.NewLimiter(rate.Limit(ctl.cfg.MsgRate), ctl.cfg.MsgBurst)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "ws").Str("sid", sid).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "ws").Str("sid", sid).Msg("readPump read error")
				return
			}
			if !limiter.Allow() {
				log.Warn().Str("module", "ws").Str("sid", sid).Msg("message rate exceeded, dropping")
				continue
			}
			ctl.handleMessage(ctx, sid, guild, c, data)
		}
	}
}
