package texture

// Callback receives a resolved texture. If a callback panics, the
// callbacks still queued on its entry are dropped and the panic
// propagates out of Update.
type Callback func(*Texture)

// entry tracks the load state of one path. It is unresolved until a
// successful completion and never leaves the resolved state. A failed
// load leaves it unresolved for good.
type entry struct {
	tex     *Texture
	pending []Callback

	// draining is set while resolve's callbacks are still being run.
	// Registrations during that window queue behind them.
	draining bool
}

func (e *entry) resolved() bool {
	return e.tex != nil
}

// register queues cb, or reports that the caller must invoke it now.
func (e *entry) register(cb Callback) (fireNow bool) {
	if e.resolved() && !e.draining {
		return true
	}
	e.pending = append(e.pending, cb)
	return false
}

// resolve stores tex and hands back the pending callbacks in
// registration order. The caller runs them, then calls drain until it
// returns nothing. A second resolve is ignored.
func (e *entry) resolve(tex *Texture) []Callback {
	if e.resolved() || tex == nil {
		return nil
	}
	e.tex = tex
	return e.drain()
}

// drain detaches the callbacks queued so far.
func (e *entry) drain() []Callback {
	cbs := e.pending
	e.pending = nil
	e.draining = len(cbs) > 0
	return cbs
}

// fail drops the pending callbacks without invoking them.
func (e *entry) fail() (dropped int) {
	dropped = len(e.pending)
	e.pending = nil
	return dropped
}

// abort ends a drain cut short by a panicking callback. The entry stays
// resolved; callbacks queued behind the batch are dropped.
func (e *entry) abort() (dropped int) {
	e.draining = false
	return e.fail()
}
