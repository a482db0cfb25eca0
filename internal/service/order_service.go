package service

import (
	"fmt"
	"time"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/logger"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/queue"
	"github.com/agromate/agromate-api/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions is the order status machine. Cancellation is handled
// separately because it restocks.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusDelivering: true,
	},
	constants.OrderStatusDelivering: {
		constants.OrderStatusDelivered: true,
	},
}

// OrderService drives the order lifecycle for all three roles.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// ListForBuyer returns a buyer's orders.
func (s *OrderService) ListForBuyer(buyerID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		BuyerID:  buyerID,
		Status:   status,
	})
}

// ListForFarmer returns orders placed against a farmer's produce.
func (s *OrderService) ListForFarmer(farmerID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		FarmerID: farmerID,
		Status:   status,
	})
}

// ListForDelivery returns orders assigned to a delivery person.
func (s *OrderService) ListForDelivery(deliveryPersonID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:             page,
		PageSize:         pageSize,
		DeliveryPersonID: deliveryPersonID,
		Status:           status,
	})
}

// ListAvailableForDelivery returns confirmed orders no rider has claimed.
func (s *OrderService) ListAvailableForDelivery(page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     constants.OrderStatusConfirmed,
		Unassigned: true,
	})
}

// GetForBuyer loads one order if it belongs to the buyer.
func (s *OrderService) GetForBuyer(orderID, buyerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.BuyerID != buyerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// FarmerUpdateStatus moves an order along the status machine on behalf of
// the selling farmer: pending -> confirmed -> preparing -> delivering.
func (s *OrderService) FarmerUpdateStatus(orderID, farmerID uint, newStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.FarmerID != farmerID {
		return nil, ErrOrderNotFound
	}
	switch newStatus {
	case constants.OrderStatusConfirmed, constants.OrderStatusPreparing, constants.OrderStatusDelivering:
	default:
		return nil, ErrOrderStatusInvalid
	}
	return s.transition(order, newStatus)
}

// ClaimForDelivery assigns an unclaimed confirmed order to a rider. The
// claim is a conditional update so two riders cannot both win.
func (s *OrderService) ClaimForDelivery(orderID, deliveryPersonID uint) (*models.Order, error) {
	rider, err := s.userRepo.GetByID(deliveryPersonID)
	if err != nil {
		return nil, err
	}
	if rider == nil {
		return nil, ErrUserNotFound
	}

	affected, err := s.orderRepo.Claim(orderID, deliveryPersonID, rider.FullName())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		return nil, ErrOrderAlreadyClaimed
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.notifyStatus(order, "Your order has a rider",
		fmt.Sprintf("Order %s was picked up by %s", order.OrderNo, order.DeliveryPersonName))
	return order, nil
}

// DeliveryUpdateStatus moves an assigned order to delivering or delivered.
func (s *OrderService) DeliveryUpdateStatus(orderID, deliveryPersonID uint, newStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.DeliveryPersonID == nil || *order.DeliveryPersonID != deliveryPersonID {
		return nil, ErrOrderNotFound
	}
	switch newStatus {
	case constants.OrderStatusDelivering, constants.OrderStatusDelivered:
	default:
		return nil, ErrOrderStatusInvalid
	}
	return s.transition(order, newStatus)
}

// BuyerCancel cancels a pending or confirmed order and returns its
// quantities to stock in one transaction.
func (s *OrderService) BuyerCancel(orderID, buyerID uint) (*models.Order, error) {
	order, err := s.GetForBuyer(orderID, buyerID)
	if err != nil {
		return nil, err
	}
	if !allowedTransitions[order.Status][constants.OrderStatusCancelled] {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"status":       constants.OrderStatusCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		})
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now
	s.notifyFarmer(order, "Order cancelled",
		fmt.Sprintf("Order %s was cancelled by %s", order.OrderNo, order.BuyerName))
	s.enqueueStatusEmail(order)
	return order, nil
}

func (s *OrderService) transition(order *models.Order, newStatus string) (*models.Order, error) {
	if !allowedTransitions[order.Status][newStatus] {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": now,
	}
	if newStatus == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, err
	}

	order.Status = newStatus
	order.UpdatedAt = now
	if newStatus == constants.OrderStatusDelivered {
		order.DeliveredAt = &now
	}

	s.notifyStatus(order, "Order update",
		fmt.Sprintf("Order %s is now %s", order.OrderNo, newStatus))
	s.enqueueStatusEmail(order)
	return order, nil
}

func (s *OrderService) enqueueStatusEmail(order *models.Order) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: order.ID,
		Status:  order.Status,
	}); err != nil {
		logger.Errorw("order_enqueue_status_email_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func (s *OrderService) notifyStatus(order *models.Order, title, message string) {
	s.notifyUser(order, order.BuyerID, title, message)
}

func (s *OrderService) notifyFarmer(order *models.Order, title, message string) {
	s.notifyUser(order, order.FarmerID, title, message)
}

func (s *OrderService) notifyUser(order *models.Order, userID uint, title, message string) {
	if s.queueClient == nil || userID == 0 {
		return
	}
	if err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		UserID:  userID,
		OrderID: order.ID,
		Type:    constants.NotificationTypeOrder,
		Title:   title,
		Message: message,
	}); err != nil {
		logger.Errorw("order_enqueue_notification_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

// FarmerStats summarises a farmer's order book.
type FarmerStats struct {
	TotalProducts   int64 `json:"total_products"`
	PendingOrders   int64 `json:"pending_orders"`
	ActiveOrders    int64 `json:"active_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
}

// StatsForFarmer computes the farmer dashboard counters.
func (s *OrderService) StatsForFarmer(farmerID uint) (*FarmerStats, error) {
	products, err := s.productRepo.ListByFarmer(farmerID)
	if err != nil {
		return nil, err
	}
	pending, err := s.orderRepo.CountByFarmerAndStatus(farmerID, []string{constants.OrderStatusPending})
	if err != nil {
		return nil, err
	}
	active, err := s.orderRepo.CountByFarmerAndStatus(farmerID, []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusDelivering,
	})
	if err != nil {
		return nil, err
	}
	delivered, err := s.orderRepo.CountByFarmerAndStatus(farmerID, []string{constants.OrderStatusDelivered})
	if err != nil {
		return nil, err
	}
	return &FarmerStats{
		TotalProducts:   int64(len(products)),
		PendingOrders:   pending,
		ActiveOrders:    active,
		DeliveredOrders: delivered,
	}, nil
}

// DeliveryStats summarises a rider's workload.
type DeliveryStats struct {
	ActiveDeliveries    int64 `json:"active_deliveries"`
	CompletedDeliveries int64 `json:"completed_deliveries"`
}

// StatsForDelivery computes the delivery dashboard counters.
func (s *OrderService) StatsForDelivery(deliveryPersonID uint) (*DeliveryStats, error) {
	active, err := s.orderRepo.CountByDeliveryAndStatus(deliveryPersonID, []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusDelivering,
	})
	if err != nil {
		return nil, err
	}
	completed, err := s.orderRepo.CountByDeliveryAndStatus(deliveryPersonID, []string{constants.OrderStatusDelivered})
	if err != nil {
		return nil, err
	}
	return &DeliveryStats{
		ActiveDeliveries:    active,
		CompletedDeliveries: completed,
	}, nil
}
