package order

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusAssigned  OrderStatus = "assigned"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
	StatusRefunded  OrderStatus = "refunded"
)

// transitions is the single source of truth for the fulfillment graph.
// The delivery chain is linear; cancelled absorbs from any pre-delivered
// state and refunded only follows delivered.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusRefunded},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks whether target is a legal next status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsCancellable returns true if the order can still be cancelled
func (s OrderStatus) IsCancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// AllStatuses returns every known status, in lifecycle order
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusAssigned, StatusPickedUp, StatusOnTheWay, StatusDelivered,
		StatusCancelled, StatusRefunded,
	}
}
