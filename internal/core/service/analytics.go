package service

import (
	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/ports"
)

// guardedAnalytics forwards to an analytics port and swallows any panic it
// raises, so reporting can never fail a use case.
type guardedAnalytics struct {
	next ports.Analytics
	log  zerolog.Logger
}

func (g guardedAnalytics) track(event string, props ports.Properties) {
	if g.next == nil {
		return
	}
	defer g.recoverPanic("track", event)
	g.next.Track(event, props)
}

func (g guardedAnalytics) identify(userID string) {
	if g.next == nil {
		return
	}
	defer g.recoverPanic("set_user_id", "")
	g.next.SetUserID(userID)
}

func (g guardedAnalytics) recoverPanic(op, event string) {
	if r := recover(); r != nil {
		g.log.Warn().
			Interface("panic", r).
			Str("op", op).
			Str("event", event).
			Msg("analytics call failed")
	}
}
