package core

import (
	"context"

	"github.com/dkeye/SyncTube/internal/domain"
)

// Sender delivers one serialized frame to a member connection without
// blocking. A failed send is the sender's problem, never the guild's.
type Sender interface {
	TrySend(data []byte) error
}

// Resolver looks up song metadata. First/best match semantics for
// queries are the resolver's concern.
type Resolver interface {
	ResolveByID(ctx context.Context, videoID string) (domain.Song, error)
	ResolveByQuery(ctx context.Context, query string) (domain.Song, error)
}
