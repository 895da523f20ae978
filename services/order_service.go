package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/yookassa"
	"github.com/eichdmk/qrMenu/repository"
	"gorm.io/gorm"
)

// PaymentGateway is the card-payment provider boundary. The real client
// lives in pkg/yookassa; tests plug in stubs.
type PaymentGateway interface {
	IsConfigured() bool
	CreatePayment(ctx context.Context, req *yookassa.CreatePaymentRequest) (*yookassa.Payment, error)
	GetPayment(ctx context.Context, id string) (*yookassa.Payment, error)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	Gateway  PaymentGateway

	// Where the provider sends the customer back after checkout, unless the
	// request carries its own URL.
	ReturnURL string
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, menuRepo *repository.MenuRepository, gateway PaymentGateway, returnURL string) *OrderService {
	return &OrderService{DB: db, Repo: repo, MenuRepo: menuRepo, Gateway: gateway, ReturnURL: returnURL}
}

// ----- DTOs -----

type OrderItemIn struct {
	MenuItemID  uint   `json:"menu_item_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	ItemComment string `json:"item_comment"`
}

type CreateOrderReq struct {
	TableID          *uint         `json:"table_id"`
	ReservationID    *uint         `json:"reservation_id"`
	OrderType        string        `json:"order_type"`
	CustomerName     string        `json:"customer_name"`
	CustomerPhone    string        `json:"customer_phone"`
	Comment          string        `json:"comment"`
	PaymentMethod    string        `json:"payment_method"`
	DeliveryAddress  string        `json:"delivery_address"`
	DeliveryFee      int64         `json:"delivery_fee"`
	PaymentReturnURL string        `json:"payment_return_url"`
	Items            []OrderItemIn `json:"items"`
}

type CreateOrderRes struct {
	OrderID                uint   `json:"order_id"`
	TotalAmount            int64  `json:"total_amount"`
	PaymentMethod          string `json:"payment_method"`
	PaymentStatus          string `json:"payment_status"`
	PaymentID              string `json:"payment_id,omitempty"`
	PaymentConfirmationURL string `json:"payment_confirmation_url,omitempty"`
}

func (req *CreateOrderReq) validate() error {
	if len(req.Items) == 0 {
		return ValidationError("items is required")
	}
	if !entity.ValidOrderType(req.OrderType) {
		return ValidationError("unknown order_type")
	}
	if !entity.ValidPaymentMethod(req.PaymentMethod) {
		return ValidationError("unknown payment_method")
	}
	if req.DeliveryFee < 0 {
		return ValidationError("delivery_fee must be >= 0")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return ValidationError("item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return ValidationError("item unit_price must be >= 0")
		}
	}
	return nil
}

// ----- Create -----

// Create persists the order, its items and, for card payments, the external
// payment request as one transaction. Any failure rolls the whole thing
// back; no half-created order is ever visible.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderReq) (*CreateOrderRes, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var total int64
	for _, it := range req.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	total += req.DeliveryFee

	payStatus := entity.PaymentStatusSucceeded // cash settles in person
	if req.PaymentMethod == entity.PaymentMethodCard {
		if total <= 0 {
			return nil, ValidationError("card payment requires a positive total")
		}
		payStatus = entity.PaymentStatusPending
	}

	var out CreateOrderRes
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order := entity.Order{
			OrderType:       req.OrderType,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			Comment:         req.Comment,
			Status:          entity.OrderStatusPending,
			TotalAmount:     total,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryFee:     req.DeliveryFee,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   payStatus,
			TableID:         req.TableID,
			ReservationID:   req.ReservationID,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		for _, it := range req.Items {
			oi := entity.OrderItem{
				OrderID:     order.ID,
				MenuItemID:  it.MenuItemID,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				ItemComment: it.ItemComment,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}

		out = CreateOrderRes{
			OrderID:       order.ID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: order.PaymentMethod,
			PaymentStatus: order.PaymentStatus,
		}

		if req.PaymentMethod == entity.PaymentMethodCard {
			if !s.Gateway.IsConfigured() {
				return ErrPaymentUnavailable
			}
			returnURL := req.PaymentReturnURL
			if returnURL == "" {
				returnURL = s.ReturnURL
			}
			p, err := s.Gateway.CreatePayment(ctx, &yookassa.CreatePaymentRequest{
				Amount:      total,
				Description: fmt.Sprintf("Order #%d", order.ID),
				ReturnURL:   returnURL,
				Metadata: map[string]string{
					"type":     "order",
					"order_id": fmt.Sprint(order.ID),
				},
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
			}

			fields := &entity.Order{
				PaymentID:              p.ID,
				PaymentStatus:          MapPaymentStatus(p.Status),
				PaymentConfirmationURL: p.ConfirmationURL(),
			}
			if _, err := s.Repo.UpdateOrderPayment(tx, order.ID, fields); err != nil {
				return err
			}
			out.PaymentStatus = fields.PaymentStatus
			out.PaymentID = p.ID
			out.PaymentConfirmationURL = fields.PaymentConfirmationURL
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ----- Listing & detail -----

type OrderItemView struct {
	entity.OrderItem
	MenuItemName string `json:"menu_item_name,omitempty"`
}

type OrderView struct {
	entity.Order
	TableName string          `json:"table_name,omitempty"`
	Items     []OrderItemView `json:"items"`
}

type Pagination struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

type OrderListOut struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
}

func (s *OrderService) List(limit, offset int) (*OrderListOut, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.Repo.ListOrders(limit, offset)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	items, err := s.Repo.ItemsForOrders(orderIDs)
	if err != nil {
		return nil, err
	}

	menuNames, err := s.menuNamesFor(items)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uint][]OrderItemView, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], OrderItemView{
			OrderItem:    it,
			MenuItemName: menuNames[it.MenuItemID],
		})
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{Order: o, Items: byOrder[o.ID]}
		if o.Table != nil {
			v.TableName = o.Table.Name
		}
		if v.Items == nil {
			v.Items = []OrderItemView{}
		}
		views = append(views, v)
	}

	return &OrderListOut{
		Orders: views,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			Total:   total,
			HasMore: int64(offset+len(views)) < total,
		},
	}, nil
}

// Summary is the public per-order view shown after checkout.
func (s *OrderService) Summary(orderID uint) (*OrderView, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order"}
		}
		return nil, err
	}

	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	menuNames, err := s.menuNamesFor(items)
	if err != nil {
		return nil, err
	}

	v := OrderView{Order: *o, Items: make([]OrderItemView, 0, len(items))}
	for _, it := range items {
		v.Items = append(v.Items, OrderItemView{OrderItem: it, MenuItemName: menuNames[it.MenuItemID]})
	}
	return &v, nil
}

func (s *OrderService) menuNamesFor(items []entity.OrderItem) (map[uint]string, error) {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if !seen[it.MenuItemID] {
			seen[it.MenuItemID] = true
			ids = append(ids, it.MenuItemID)
		}
	}
	menuItems, err := s.MenuRepo.GetMenuItemsByIDs(s.DB, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(menuItems))
	for _, m := range menuItems {
		names[m.ID] = m.Name
	}
	return names, nil
}

// ----- Admin status update -----

func (s *OrderService) UpdateStatus(orderID uint, status string) error {
	if !entity.ValidOrderStatus(status) {
		return ValidationError("unknown status")
	}
	affected, err := s.Repo.UpdateStatus(orderID, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "order"}
	}
	return nil
}
