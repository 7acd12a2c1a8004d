package events

import "github.com/sims-ims/sims-client/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Submit(username string, register bool) {
	logging.Trace("session.submit", map[string]interface{}{"username": username, "register": register})
}

func (SessionTracer) Ignored(state, reason string) {
	logging.Trace("session.ignored", map[string]interface{}{"state": state, "reason": reason})
}

func (SessionTracer) Authenticated(username string) {
	logging.Trace("session.authenticated", map[string]interface{}{"username": username})
}

func (SessionTracer) Rejected(username, message string) {
	logging.Trace("session.rejected", map[string]interface{}{"username": username, "message": message})
}

func (SessionTracer) Logout(username string) {
	logging.Trace("session.logout", map[string]interface{}{"username": username})
}
