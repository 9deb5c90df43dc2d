package core

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry maps guild id to Guild. Join and Leave run under the
// registry lock, so creating a guild, adding or removing its members
// and evicting it when empty cannot interleave: a guild never gets
// evicted with a member in it and a member never lands in an evicted
// guild.
type Registry struct {
	resolver Resolver

	mu     sync.Mutex
	guilds map[string]*Guild
}

func NewRegistry(resolver Resolver) *Registry {
	return &Registry{
		resolver: resolver,
		guilds:   make(map[string]*Guild),
	}
}

// Join resolves or creates the guild and registers the connection in
// it, returning the guild for subsequent actions.
func (r *Registry) Join(guildID string, conn Sender) *Guild {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guilds[guildID]
	if !ok {
		g = NewGuild(guildID, r.resolver)
		r.guilds[guildID] = g
		log.Info().Str("module", "core.registry").Str("guild", guildID).Msg("guild created")
	}
	g.Join(conn)
	return g
}

// Leave removes the connection from its guild and evicts the guild if
// that was the last member.
func (r *Registry) Leave(guildID string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guilds[guildID]
	if !ok {
		return
	}
	g.Leave(conn)
	if g.MemberCount() == 0 {
		delete(r.guilds, guildID)
		log.Info().Str("module", "core.registry").Str("guild", guildID).Msg("guild evicted")
	}
}

// Get returns the live guild for an id, if any.
func (r *Registry) Get(guildID string) (*Guild, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guilds[guildID]
	return g, ok
}

type GuildInfo struct {
	ID          string `json:"id"`
	MemberCount int    `json:"member_count"`
}

func (r *Registry) List() []GuildInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GuildInfo, 0, len(r.guilds))
	for id, g := range r.guilds {
		out = append(out, GuildInfo{ID: id, MemberCount: g.MemberCount()})
	}
	return out
}
