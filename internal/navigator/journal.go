package navigator

import (
	"time"

	"github.com/tungetti/wizardnav/internal/wizard"
)

// HopKind describes how a hop moved (or did not move) through the wizard.
type HopKind int

const (
	HopForward HopKind = iota
	HopBackward
	HopPassThrough
	HopSidebar
	HopOpen
)

// String returns a human-readable representation of the hop kind.
func (k HopKind) String() string {
	switch k {
	case HopForward:
		return "forward"
	case HopBackward:
		return "backward"
	case HopPassThrough:
		return "pass-through"
	case HopSidebar:
		return "sidebar"
	case HopOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Hop is one journal entry.
type Hop struct {
	// Op is the navigator operation the hop belongs to.
	Op   string
	Kind HopKind
	From wizard.Step
	// To is the step the hop was expected to land on.
	To wizard.Step
	// Observed is where the wizard actually was afterwards. Empty for
	// pass-through hops, which do not touch the wizard.
	Observed  wizard.Step
	Timestamp time.Time
	Duration  time.Duration
	Err       error
}

// Failed reports whether the hop ended with an error.
func (h Hop) Failed() bool {
	return h.Err != nil
}

// Hook is called after every journal entry is recorded.
type Hook func(hop Hop)

func (n *Navigator) record(hop Hop) {
	n.journal = append(n.journal, hop)

	logger := n.logger.WithFields("op", hop.Op, "kind", hop.Kind.String(), "from", hop.From, "to", hop.To)
	if hop.Err != nil {
		logger.Error("hop failed", "observed", hop.Observed, "error", hop.Err)
	} else {
		logger.Debug("hop done", "elapsed", hop.Duration)
	}

	for _, h := range n.hooks {
		h(hop)
	}
}

// Journal returns the hops performed so far, oldest first.
func (n *Navigator) Journal() []Hop {
	return append([]Hop{}, n.journal...)
}
