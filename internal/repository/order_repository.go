package repository

import (
	"errors"
	"time"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	Claim(orderID, deliveryPersonID uint, deliveryPersonName string) (int64, error)
	CountByFarmerAndStatus(farmerID uint, statuses []string) (int64, error)
	CountByDeliveryAndStatus(deliveryPersonID uint, statuses []string) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts an order with its line items in one statement.
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID fetches an order with items, nil when absent.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its public number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List fetches orders newest-first, scoped by the filter.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.BuyerID != 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.FarmerID != 0 {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.DeliveryPersonID != 0 {
		query = query.Where("delivery_person_id = ?", filter.DeliveryPersonID)
	}
	if filter.Unassigned {
		query = query.Where("delivery_person_id IS NULL")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := applyPagination(query.Preload("Items").Order("created_at desc"), filter.Page, filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields applies a partial update.
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// Claim assigns an unassigned order to a delivery person. Zero affected rows
// means someone else claimed it first.
func (r *GormOrderRepository) Claim(orderID, deliveryPersonID uint, deliveryPersonName string) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND delivery_person_id IS NULL AND status = ?", orderID, constants.OrderStatusConfirmed).
		Updates(map[string]interface{}{
			"delivery_person_id":   deliveryPersonID,
			"delivery_person_name": deliveryPersonName,
			"updated_at":           time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CountByFarmerAndStatus counts a farmer's orders in the given statuses.
func (r *GormOrderRepository) CountByFarmerAndStatus(farmerID uint, statuses []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("farmer_id = ? AND status IN ?", farmerID, statuses).
		Count(&count).Error
	return count, err
}

// CountByDeliveryAndStatus counts a delivery person's orders in the given statuses.
func (r *GormOrderRepository) CountByDeliveryAndStatus(deliveryPersonID uint, statuses []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("delivery_person_id = ? AND status IN ?", deliveryPersonID, statuses).
		Count(&count).Error
	return count, err
}
