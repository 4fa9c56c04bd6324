package domain

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "PENDING"
	ListingStatusApproved ListingStatus = "APPROVED"
	ListingStatusRejected ListingStatus = "REJECTED"
)

type Listing struct {
	ID          int32  `json:"id"`
	OwnerID     int32  `json:"owner_id"`
	Owner       *User  `json:"owner,omitempty"` // Populated when fetching listing details
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	// Price per day in the smallest currency unit. All booking totals are
	// computed from the value captured on the booking, not this field.
	PricePerDay int32         `json:"price_per_day"`
	Location    string        `json:"location"`
	ImageURL    string        `json:"image_url"`
	Rating      float32       `json:"rating"`
	ReviewCount int32         `json:"review_count"`
	Status      ListingStatus `json:"status"`
	CreatedOn   string        `json:"created_on"`
	UpdatedOn   string        `json:"updated_on"`
}

// ListingFilter narrows catalog queries. Zero values mean "no constraint".
type ListingFilter struct {
	Status         ListingStatus
	OwnerID        int32
	Category       string
	Query          string
	MaxPricePerDay int32
}
