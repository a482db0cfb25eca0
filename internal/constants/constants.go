package constants

// User roles
const (
	RoleFarmer   = "farmer"
	RoleBuyer    = "buyer"
	RoleDelivery = "delivery"
)

// User account status
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Order status
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Product categories
const (
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryGrains     = "grains"
	CategoryHerbs      = "herbs"
	CategoryDairy      = "dairy"
	CategoryOthers     = "others"
)

// Notification types
const (
	NotificationTypeOrder    = "order"
	NotificationTypeProduct  = "product"
	NotificationTypeDelivery = "delivery"
)

// Upload providers
const (
	UploadProviderLocal      = "local"
	UploadProviderCloudinary = "cloudinary"
)

// Currency is the marketplace display currency.
const Currency = "XAF"

// Async task names
const (
	QueueDefault          = "default"
	TaskOrderStatusEmail  = "order:status_email"
	TaskOrderNotification = "order:notification"
)

// Roles lists every dashboard role.
var Roles = []string{RoleFarmer, RoleBuyer, RoleDelivery}

// Categories lists the fixed catalog categories.
var Categories = []string{
	CategoryVegetables,
	CategoryFruits,
	CategoryGrains,
	CategoryHerbs,
	CategoryDairy,
	CategoryOthers,
}

// IsValidRole reports whether role names a known dashboard role.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidCategory reports whether category is one of the fixed catalog categories.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
