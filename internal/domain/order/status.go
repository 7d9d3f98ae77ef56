package order

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending     Status = "pending"
	StatusProcessing  Status = "processing"
	StatusReadyToShip Status = "ready_to_ship"
	StatusShipping    Status = "shipping"
	StatusDelivered   Status = "delivered"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusReturned    Status = "returned"
)

// IsValid checks if the status is a known order status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReadyToShip, StatusShipping,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status is terminal. Terminal orders accept no
// further transitions, including carrier-driven ones.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// transitions is the allow-list of legal operator-driven status transitions.
// Dispatching to a carrier moves pending/processing orders straight to
// shipping, hence the extra edges from those states.
var transitions = map[Status][]Status{
	StatusPending:     {StatusProcessing, StatusShipping, StatusCancelled},
	StatusProcessing:  {StatusReadyToShip, StatusShipping, StatusCancelled},
	StatusReadyToShip: {StatusShipping, StatusCancelled},
	StatusShipping:    {StatusDelivered, StatusReturned, StatusCancelled},
	StatusDelivered:   {StatusCompleted, StatusReturned, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusReturned:    {},
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
