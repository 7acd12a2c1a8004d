package events

import "github.com/sims-ims/sims-client/internal/logging"

type EditTracer struct{}

var Edit = EditTracer{}

func (EditTracer) Start(target string) {
	logging.Trace("edit.start", map[string]interface{}{"target": target})
}

func (EditTracer) Stop(target string) {
	logging.Trace("edit.stop", map[string]interface{}{"target": target})
}

func (EditTracer) Field(target, field string) {
	logging.Trace("edit.field", map[string]interface{}{"target": target, "field": field})
}

// Mismatch records a field update that had nowhere to go.
func (EditTracer) Mismatch(target, field string) {
	logging.Trace("edit.field.ignored", map[string]interface{}{"target": target, "field": field})
}

func (EditTracer) Invalid(target, message string) {
	logging.Trace("edit.invalid", map[string]interface{}{"target": target, "message": message})
}

func (EditTracer) Submit(target string) {
	logging.Trace("edit.submit", map[string]interface{}{"target": target})
}
