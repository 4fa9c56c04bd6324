package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusRejected
}

// CanTransition reports whether a booking may move from s to target.
// The only legal transitions are PENDING -> CONFIRMED and PENDING -> REJECTED.
func (s BookingStatus) CanTransition(target BookingStatus) bool {
	return s == BookingStatusPending &&
		(target == BookingStatusConfirmed || target == BookingStatusRejected)
}

type Booking struct {
	ID          int32 `json:"id"`
	EquipmentID int32 `json:"equipment_id"`
	// Listing name captured at booking time so requests stay readable
	// after the listing changes.
	EquipmentName string `json:"equipment_name"`
	RenterID      int32  `json:"renter_id"`
	// Owner snapshot taken from the listing at creation time. Decision
	// authorization checks this field, never the live listing.
	OwnerID   int32  `json:"owner_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Price-per-day snapshot and the computed total, both in the
	// smallest currency unit.
	PricePerDay int32         `json:"price_per_day"`
	TotalPrice  int32         `json:"total_price"`
	Status      BookingStatus `json:"status"`
	CreatedOn   string        `json:"created_on"`
	UpdatedOn   string        `json:"updated_on"`
}

// BookingFilter narrows booking queries. Zero values mean "no constraint".
type BookingFilter struct {
	EquipmentID int32
	RenterID    int32
	OwnerID     int32
	Status      BookingStatus
}
