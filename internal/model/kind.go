package model

// Kind identifies the category of service request. All kinds share one
// lifecycle shape; per-kind differences live in KindConfig.
type Kind string

const (
	KindOrder        Kind = "order"
	KindRenovation   Kind = "renovation"
	KindConstruction Kind = "construction"
	KindRental       Kind = "rental"
	KindBuySell      Kind = "buy_sell"
)

// KindConfig is the strategy entry for one request kind: where its documents
// live, how its display id is prefixed, where its state machine starts, and
// which transitions are legal.
type KindConfig struct {
	Kind       Kind
	Collection string
	Prefix     string
	Label      string
	Initial    Status
	OrderLike  bool

	// Transitions maps a current status to the set of statuses reachable
	// from it. A status absent from the map is terminal.
	Transitions map[Status][]Status
}

// CanTransition reports whether moving from one status to another is a legal
// edge in this kind's state graph. The in_progress self-edge carries
// progress-note updates without a state change.
func (c KindConfig) CanTransition(from, to Status) bool {
	for _, next := range c.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// defaultTransitions is the lifecycle graph shared by every kind:
//
//	pending --accept--> accepted --start--> in_progress --complete--> completed
//	pending --reject--> rejected
//	accepted --reject--> rejected (provider backs out)
//	in_progress --progress note--> in_progress
func defaultTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:    {StatusAccepted, StatusRejected},
		StatusAccepted:   {StatusInProgress, StatusRejected},
		StatusInProgress: {StatusInProgress, StatusCompleted},
	}
}

var kindConfigs = map[Kind]KindConfig{
	KindOrder: {
		Kind:        KindOrder,
		Collection:  "order_request",
		Prefix:      "ORD",
		Label:       "order",
		Initial:     StatusPending,
		OrderLike:   true,
		Transitions: defaultTransitions(),
	},
	KindRenovation: {
		Kind:        KindRenovation,
		Collection:  "renovation_request",
		Prefix:      "REN",
		Label:       "renovation request",
		Initial:     StatusPending,
		Transitions: defaultTransitions(),
	},
	KindConstruction: {
		Kind:        KindConstruction,
		Collection:  "construction_request",
		Prefix:      "CON",
		Label:       "construction request",
		Initial:     StatusPending,
		Transitions: defaultTransitions(),
	},
	KindRental: {
		Kind:        KindRental,
		Collection:  "rental_request",
		Prefix:      "RNT",
		Label:       "rental request",
		Initial:     StatusPending,
		Transitions: defaultTransitions(),
	},
	KindBuySell: {
		Kind:        KindBuySell,
		Collection:  "buy_sell_request",
		Prefix:      "BUY",
		Label:       "buy-sell request",
		Initial:     StatusPending,
		Transitions: defaultTransitions(),
	},
}

// ConfigForKind returns the configuration for a kind
func ConfigForKind(k Kind) (KindConfig, bool) {
	cfg, ok := kindConfigs[k]
	return cfg, ok
}

// Kinds returns all registered kinds in a stable order
func Kinds() []Kind {
	return []Kind{KindOrder, KindRenovation, KindConstruction, KindRental, KindBuySell}
}
