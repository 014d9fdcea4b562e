package events

import "github.com/atomicstack/pijul-channel-picker/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Finish(outcome string, channel string) {
	logging.Trace("app.finish", map[string]interface{}{"outcome": outcome, "channel": channel})
}
