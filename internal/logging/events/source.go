package events

import "github.com/atomicstack/pijul-channel-picker/internal/logging"

type SourceTracer struct{}

var Source = SourceTracer{}

func (SourceTracer) Listed(dir string, count int) {
	logging.Trace("source.list", map[string]interface{}{"dir": dir, "count": count})
}

func (SourceTracer) Failed(dir string, err error) {
	if err == nil {
		return
	}
	logging.Trace("source.error", map[string]interface{}{"dir": dir, "error": err.Error()})
}

func (SourceTracer) Switch(dir, channel string) {
	logging.Trace("source.switch", map[string]interface{}{"dir": dir, "channel": channel})
}
