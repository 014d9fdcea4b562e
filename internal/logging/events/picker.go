package events

import "github.com/atomicstack/pijul-channel-picker/internal/logging"

type PickerTracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	Picker  = PickerTracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (PickerTracer) Cursor(picker string, index int) {
	logging.Trace("picker.cursor", map[string]interface{}{"picker": picker, "index": index})
}

func (PickerTracer) Confirm(picker, item string, secondary bool) {
	logging.Trace("picker.confirm", map[string]interface{}{"picker": picker, "item": item, "secondary": secondary})
}

func (PickerTracer) ConfirmEmpty(picker string) {
	logging.Trace("picker.confirm.empty", map[string]interface{}{"picker": picker})
}

func (PickerTracer) Dismiss(picker string) {
	logging.Trace("picker.dismiss", map[string]interface{}{"picker": picker})
}

func (FilterTracer) Issue(picker string, epoch uint64, query string) {
	logging.Trace("filter.issue", map[string]interface{}{"picker": picker, "epoch": epoch, "query": query})
}

func (FilterTracer) Applied(picker string, epoch uint64, matches int) {
	logging.Trace("filter.applied", map[string]interface{}{"picker": picker, "epoch": epoch, "matches": matches})
}

func (FilterTracer) Stale(picker string, epoch, current uint64) {
	logging.Trace("filter.stale", map[string]interface{}{"picker": picker, "epoch": epoch, "current": current})
}

func (FilterTracer) Failed(picker string, epoch uint64, err error) {
	if err == nil {
		return
	}
	logging.Trace("filter.failed", map[string]interface{}{"picker": picker, "epoch": epoch, "error": err.Error()})
}

func (FilterTracer) Cleared(picker string) {
	logging.Trace("filter.clear", map[string]interface{}{"picker": picker})
}

func (FilterTracer) WordBackspace(picker, query string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"picker": picker, "query": query})
}

func (FilterTracer) Cursor(picker string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"picker": picker, "cursor": pos})
}

func (FilterTracer) Append(picker, query string) {
	logging.Trace("filter.append", map[string]interface{}{"picker": picker, "query": query})
}

func (FilterTracer) Backspace(picker, query string) {
	logging.Trace("filter.backspace", map[string]interface{}{"picker": picker, "query": query})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
