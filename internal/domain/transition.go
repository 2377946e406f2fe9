package domain

// allowedTransitions is the single status table shared by the order detail,
// kitchen display and cashier screens. Targets are listed in the order actions
// should be offered.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether current may move to target. The backend remains
// the authority and can still reject a move this reports as legal.
func CanTransition(current, target OrderStatus) bool {
	for _, s := range allowedTransitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from current in one step.
func NextStatuses(current OrderStatus) []OrderStatus {
	next := allowedTransitions[current]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
