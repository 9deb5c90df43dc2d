package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/SyncTube/internal/domain"
)

type member struct {
	id       string
	profile  domain.Profile
	finished bool
}

// Guild is one synchronized playback session: a membership set, an
// ordered queue and a shared media state. Every action handler runs
// under g.mu, so only one action mutates a guild at a time; different
// guilds proceed independently.
type Guild struct {
	id       string
	resolver Resolver

	mu         sync.Mutex
	members    map[Sender]*member
	queue      []domain.QueueItem
	state      domain.MediaState
	lastUpdate time.Time
	wasPaused  bool

	now func() time.Time
}

func NewGuild(id string, resolver Resolver) *Guild {
	g := &Guild{
		id:       id,
		resolver: resolver,
		members:  make(map[Sender]*member),
		state:    domain.NewMediaState(),
		now:      time.Now,
	}
	g.lastUpdate = g.now()
	log.Debug().Str("module", "core.guild").Str("guild", id).Msg("guild initialised")
	return g
}

func (g *Guild) ID() string { return g.id }

func (g *Guild) MemberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// Join registers a connection. A re-join on the same connection
// overwrites the entry with a fresh one. The membership list goes to
// everyone; the queue and media-state snapshots go to the new
// connection only.
func (g *Guild) Join(conn Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m := &member{id: uuid.NewString(), finished: true}
	g.members[conn] = m
	log.Debug().Str("module", "core.guild").Str("guild", g.id).Str("member", m.id).
		Int("count", len(g.members)).Msg("member joined")
	g.notifyAllLocked(g.usersFrameLocked())
	g.sendLocked(conn, g.queueFrameLocked())
	g.sendLocked(conn, g.stateFrameLocked())
}

// Leave removes a connection from the guild. No-op if unknown.
func (g *Guild) Leave(conn Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.members, conn)
	log.Debug().Str("module", "core.guild").Str("guild", g.id).
		Int("count", len(g.members)).Msg("member left")
	g.notifyAllLocked(g.usersFrameLocked())
}

// SetProfile replaces the member's display profile. Keys absent from
// the request were already cleared in p by the caller.
func (g *Guild) SetProfile(conn Sender, p domain.Profile) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[conn]
	if !ok {
		return nil
	}
	m.profile = p
	log.Debug().Str("module", "core.guild").Str("guild", g.id).Str("member", m.id).Msg("profile edited")
	g.notifyAllLocked(g.usersFrameLocked())
	return nil
}

// PlayPause flips the shared playing flag. The state broadcast
// reconciles the clock, so pausing freezes CurrentTime as-is.
func (g *Guild) PlayPause(conn Sender, playing bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Playing = playing
	log.Debug().Str("module", "core.guild").Str("guild", g.id).Bool("playing", playing).Msg("playback toggled")
	g.notifyAllLocked(g.stateFrameLocked())
	return nil
}

// Add resolves a song by video id or free-text query, appends it to
// the queue and broadcasts the queue. If the guild sat at the end of
// the queue with the last item fully played, the new item starts
// immediately via a relative jump of +1. The resolver call is network
// I/O and runs before the guild lock is taken.
func (g *Guild) Add(ctx context.Context, conn Sender, videoID, query string) error {
	var (
		song domain.Song
		err  error
	)
	if videoID != "" {
		song, err = g.resolver.ResolveByID(ctx, videoID)
	} else {
		song, err = g.resolver.ResolveByQuery(ctx, query)
	}
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return Errf(KindInvalidVideo, MsgInvalidVideo)
		}
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.reconcile()
	// Play immediately only when we were on the last queue slot and
	// that item had run out. With an empty queue QueueIndex is -1 and
	// len-1 is -1 too, so the very first add starts playback.
	playNow := g.state.QueueIndex == len(g.queue)-1 && g.state.CurrentTime == g.state.Length

	g.queue = append(g.queue, domain.NewQueueItem(song))
	log.Debug().Str("module", "core.guild").Str("guild", g.id).
		Str("title", song.Title).Str("url", song.URL).Msg("queued song")
	g.notifyAllLocked(g.queueFrameLocked())

	if playNow {
		log.Debug().Str("module", "core.guild").Str("guild", g.id).Msg("end of queue, playing newly added song immediately")
		return g.jumpLocked(1, 0)
	}
	return nil
}

// Remove deletes queue[index]. Index 0 is never removable: it is the
// slot the media state may currently point at.
func (g *Guild) Remove(conn Sender, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index <= 0 || index >= len(g.queue) {
		return Errf(KindIndex, MsgIndexBounds)
	}
	log.Debug().Str("module", "core.guild").Str("guild", g.id).
		Str("title", g.queue[index].Title).Int("index", index).Msg("removed song")
	g.queue = append(g.queue[:index], g.queue[index+1:]...)
	g.notifyAllLocked(g.queueFrameLocked())
	return nil
}

// Jump moves playback by offset slots relative to the current queue
// index, seeking to seek seconds into the target item.
func (g *Guild) Jump(conn Sender, offset, seek int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jumpLocked(offset, seek)
}

func (g *Guild) jumpLocked(offset, seek int) error {
	target := g.state.QueueIndex + offset
	if target < 0 || target >= len(g.queue) {
		return Errf(KindIndex, MsgJumpBounds)
	}
	if seek < 0 || seek > g.queue[target].Length {
		return Errf(KindTimeLimit, MsgTimeLimit)
	}
	log.Debug().Str("module", "core.guild").Str("guild", g.id).
		Str("title", g.queue[target].Title).Int("index", target).Msg("jumped")

	for _, m := range g.members {
		m.finished = false
	}
	g.lastUpdate = g.now()
	g.state = domain.MediaState{
		CurrentTime: seek,
		Length:      g.queue[target].Length,
		Playing:     true,
		QueueIndex:  target,
	}
	g.notifyAllLocked(g.stateFrameLocked())
	return nil
}

// MarkFinished records that this member reached the end of the current
// item. Once every member has, all flags reset and playback advances
// to the next slot; on the last slot the guild idles instead.
func (g *Guild) MarkFinished(conn Sender) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[conn]
	if !ok {
		return nil
	}
	m.finished = true
	for _, mm := range g.members {
		if !mm.finished {
			return nil
		}
	}
	log.Debug().Str("module", "core.guild").Str("guild", g.id).Msg("all members finished")
	for _, mm := range g.members {
		mm.finished = false
	}
	if g.state.QueueIndex != len(g.queue)-1 {
		return g.jumpLocked(1, 0)
	}
	return nil
}

func (g *Guild) stateFrameLocked() []byte {
	g.reconcile()
	return marshalEvent(stateEvent{Event: "state", MediaState: g.state})
}

func (g *Guild) queueFrameLocked() []byte {
	queue := make([]domain.QueueItem, len(g.queue))
	copy(queue, g.queue)
	return marshalEvent(queueEvent{Event: "queue", Queue: queue})
}

func (g *Guild) usersFrameLocked() []byte {
	users := make([]MemberInfo, 0, len(g.members))
	for _, m := range g.members {
		users = append(users, MemberInfo{ID: m.id, Profile: m.profile, Finished: m.finished})
	}
	return marshalEvent(usersEvent{Event: "users", Count: len(g.members), Users: users})
}

// notifyAllLocked fans a frame out to every member. A send failure
// drops that member's frame only; the dead connection cleans itself up
// through its own disconnect.
func (g *Guild) notifyAllLocked(frame []byte) {
	if frame == nil {
		return
	}
	dropped := 0
	for conn := range g.members {
		if err := conn.TrySend(frame); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("module", "core.guild").Str("guild", g.id).Int("dropped", dropped).Msg("broadcast drops")
	}
}

func (g *Guild) sendLocked(conn Sender, frame []byte) {
	if frame == nil {
		return
	}
	_ = conn.TrySend(frame)
}
