package order

type Status string

// Tracking statuses. Orders start confirmed; later transitions belong to the
// kitchen and delivery services.
const (
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusRiderAssigned  Status = "rider_assigned"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPreparing, StatusRiderAssigned, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
