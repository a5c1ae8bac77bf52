package dom

import "slices"

// MutationRecord describes one child-list change on Target.
type MutationRecord struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// MutationCallback receives the records of a mutation.
type MutationCallback func([]MutationRecord)

type observer struct {
	fn           MutationCallback
	subtree      bool
	disconnected bool
}

// Observe registers fn for child-list mutations of n. With subtree set it
// also receives mutations of any descendant. Callbacks run synchronously
// after the mutation completes. The returned function disconnects.
func (n *Node) Observe(subtree bool, fn MutationCallback) (disconnect func()) {
	o := &observer{fn: fn, subtree: subtree}
	n.observers = append(n.observers, o)
	return func() {
		o.disconnected = true
		n.observers = slices.DeleteFunc(n.observers, func(x *observer) bool { return x == o })
	}
}

// ObserverCount returns the number of observers registered directly on n.
func (n *Node) ObserverCount() int { return len(n.observers) }

func (n *Node) notify(rec MutationRecord) {
	pending := slices.Clone(n.observers)
	for a := n.parent; a != nil; a = a.parent {
		for _, o := range a.observers {
			if o.subtree {
				pending = append(pending, o)
			}
		}
	}
	records := []MutationRecord{rec}
	for _, o := range pending {
		if o.disconnected {
			continue
		}
		o.fn(records)
	}
}
