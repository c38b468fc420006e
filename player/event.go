package player

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Context carries cancellation through an event handler call.
type Context struct {
	cancelled bool
}

// C returns a fresh event context.
func C() *Context {
	return &Context{}
}

// Cancel marks the event as cancelled.
func (ctx *Context) Cancel() {
	ctx.cancelled = true
}

// Cancelled reports whether the event was cancelled.
func (ctx *Context) Cancelled() bool {
	return ctx.cancelled
}

// EventHandler receives the engine's violation events. The punishment layer
// plugs in here; the engine itself never disconnects or penalizes a player
// beyond its own bookkeeping.
type EventHandler interface {
	// HandleFlag handles an action of the player failing validation.
	// Cancelling the context suppresses the suspicion bump and the violation
	// log line; the validation result itself is unaffected.
	HandleFlag(ctx *Context, p *Player, violation string, confidence float32, data *orderedmap.OrderedMap[string, any])
	// HandlePunishment handles the player's suspicion score saturating.
	// Cancelling the context tells the engine the external layer takes no
	// action; message may be replaced with a custom reason.
	HandlePunishment(ctx *Context, p *Player, message *string)
}

// NopHandler implements EventHandler with no-ops. Embed it to handle only the
// events a deployment cares about.
type NopHandler struct{}

// HandleFlag ...
func (NopHandler) HandleFlag(*Context, *Player, string, float32, *orderedmap.OrderedMap[string, any]) {
}

// HandlePunishment ...
func (NopHandler) HandlePunishment(*Context, *Player, *string) {}
