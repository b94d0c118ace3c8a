package view

// ChangeKind is a bitset of observable state categories. A subscription names
// the kinds it wants; a posted signal names the single kind that changed.
type ChangeKind uint8

const (
	// KindTraits fires when the view's trait set changes.
	KindTraits ChangeKind = 1 << iota
	// KindBounds fires when the view's bounds change.
	KindBounds
	// KindVisibility fires when the view's hidden flag changes.
	KindVisibility
	// KindConfiguration fires when the active configuration name changes.
	KindConfiguration
)

// KindAll subscribes to every observable category. Used for callback
// conditions whose inputs are unknown.
const KindAll = KindTraits | KindBounds | KindVisibility | KindConfiguration

// Has reports whether k contains all bits of other.
func (k ChangeKind) Has(other ChangeKind) bool {
	return k&other == other
}

// IsSingle reports whether exactly one bit is set.
func (k ChangeKind) IsSingle() bool {
	return k != 0 && k&(k-1) == 0
}

// Count returns the number of set bits.
func (k ChangeKind) Count() int {
	n := 0
	for b := ChangeKind(1); b != 0 && b <= KindConfiguration; b <<= 1 {
		if k&b != 0 {
			n++
		}
	}
	return n
}

// String renders the kind set for logs and traces.
func (k ChangeKind) String() string {
	names := []struct {
		bit  ChangeKind
		name string
	}{
		{KindTraits, "traits"},
		{KindBounds, "bounds"},
		{KindVisibility, "visibility"},
		{KindConfiguration, "configuration"},
	}
	out := ""
	for _, n := range names {
		if k&n.bit == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n.name
	}
	if out == "" {
		return "none"
	}
	return out
}

// Signal describes one observed state change on one view.
type Signal struct {
	View ID
	Kind ChangeKind
}

// Token identifies one hub subscription for later cancellation.
type Token int64

type subscription struct {
	token Token
	view  ID
	kinds ChangeKind
	fn    func(Signal)
}

// hub routes change signals to subscriptions, synchronously and in
// subscription order. Delivery happens on the caller's (loop) goroutine.
type hub struct {
	nextToken Token
	subs      []subscription
}

func (h *hub) subscribe(v ID, kinds ChangeKind, fn func(Signal)) Token {
	h.nextToken++
	h.subs = append(h.subs, subscription{
		token: h.nextToken,
		view:  v,
		kinds: kinds,
		fn:    fn,
	})
	return h.nextToken
}

func (h *hub) unsubscribe(tok Token) {
	for i, s := range h.subs {
		if s.token == tok {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

func (h *hub) post(sig Signal) {
	// Copy the slice header: a subscriber may subscribe/unsubscribe while we
	// deliver, and appends must not affect the in-flight delivery.
	subs := h.subs
	for _, s := range subs {
		if s.view == sig.View && s.kinds&sig.Kind != 0 {
			s.fn(sig)
		}
	}
}

func (h *hub) countFor(v ID) int {
	n := 0
	for _, s := range h.subs {
		if s.view == v {
			n++
		}
	}
	return n
}
