package core

// reconcile brings the media clock up to wall-clock time. There is no
// background timer: it runs lazily, right before the state is read or
// mutated. Time only accrues when playback was playing both now and at
// the previous reconciliation (wasPaused latch), so a pause freezes the
// clock until the next explicit state change. CurrentTime never passes
// Length. Caller holds g.mu.
func (g *Guild) reconcile() {
	now := g.now()
	if g.state.Playing && !g.wasPaused {
		elapsed := int(now.Sub(g.lastUpdate).Seconds())
		g.state.CurrentTime = min(g.state.CurrentTime+elapsed, g.state.Length)
	}
	g.wasPaused = !g.state.Playing
	g.lastUpdate = now
}
