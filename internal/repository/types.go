package repository

// ProductListFilter narrows catalog listings.
type ProductListFilter struct {
	Page          int
	PageSize      int
	Category      string
	Search        string
	FarmerID      uint
	ExcludeID     uint
	OnlyAvailable bool
}

// OrderListFilter narrows order listings. Exactly one of BuyerID, FarmerID
// and DeliveryPersonID is normally set; Unassigned selects claimable orders.
type OrderListFilter struct {
	Page             int
	PageSize         int
	BuyerID          uint
	FarmerID         uint
	DeliveryPersonID uint
	Status           string
	Unassigned       bool
}

// NotificationListFilter narrows notification listings.
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	OnlyUnread bool
}
