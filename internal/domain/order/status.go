package order

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusPacked         Status = "packed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
	StatusRefunded       Status = "refunded"
)

// AllStatuses lists every valid order status in forward-flow order,
// followed by the side/terminal statuses
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusPacked,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
	StatusRefunded,
}

// forwardFlow maps each status to its next forward status
var forwardFlow = map[Status]Status{
	StatusPending:        StatusConfirmed,
	StatusConfirmed:      StatusProcessing,
	StatusProcessing:     StatusPacked,
	StatusPacked:         StatusShipped,
	StatusShipped:        StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// IsValid checks if the status is a member of the enumeration
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusPacked,
		StatusShipped, StatusOutForDelivery, StatusDelivered,
		StatusCancelled, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Next returns the next forward status and whether one exists
func (s Status) Next() (Status, bool) {
	next, ok := forwardFlow[s]
	return next, ok
}

// IsTerminal returns true for statuses with no outgoing transitions
// under the restricted policy
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

// TransitionPolicy governs which status changes are permitted
// from a given current status
type TransitionPolicy int

const (
	// PolicyRestricted permits only the next forward status or cancellation.
	// Used by the quick inline status selector.
	PolicyRestricted TransitionPolicy = iota
	// PolicyUnrestricted permits any status other than the current one.
	// Used by the administrative status-change dialog.
	PolicyUnrestricted
)

// CanTransitionTo checks whether the status may move to target under
// the given policy. The target must be valid and differ from the
// current status regardless of policy.
func (s Status) CanTransitionTo(target Status, policy TransitionPolicy) bool {
	if !target.IsValid() || target == s {
		return false
	}
	if policy == PolicyUnrestricted {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	next, ok := forwardFlow[s]
	return ok && target == next
}
