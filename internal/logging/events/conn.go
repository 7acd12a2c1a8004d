package events

import "github.com/sims-ims/sims-client/internal/logging"

type ConnTracer struct{}

var Conn = ConnTracer{}

func (ConnTracer) Dial(address string) {
	logging.Trace("conn.dial", map[string]interface{}{"address": address})
}

func (ConnTracer) DialFailed(address string, err error) {
	logging.Trace("conn.dial.error", map[string]interface{}{"address": address, "error": errorText(err)})
}

func (ConnTracer) Dropped(address string, err error) {
	logging.Trace("conn.drop", map[string]interface{}{"address": address, "error": errorText(err)})
}

func (ConnTracer) Closed(address string) {
	logging.Trace("conn.close", map[string]interface{}{"address": address})
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
