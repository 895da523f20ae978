package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/yookassa"
	"github.com/eichdmk/qrMenu/repository"
	"gorm.io/gorm"
)

type ReservationService struct {
	DB           *gorm.DB
	Repo         *repository.ReservationRepository
	OrderRepo    *repository.OrderRepository
	TableRepo    *repository.TableRepository
	MenuRepo     *repository.MenuRepository
	Availability *AvailabilityService
	Gateway      PaymentGateway
	ReturnURL    string
}

func NewReservationService(
	db *gorm.DB,
	repo *repository.ReservationRepository,
	orderRepo *repository.OrderRepository,
	tableRepo *repository.TableRepository,
	menuRepo *repository.MenuRepository,
	availability *AvailabilityService,
	gateway PaymentGateway,
	returnURL string,
) *ReservationService {
	return &ReservationService{
		DB:           db,
		Repo:         repo,
		OrderRepo:    orderRepo,
		TableRepo:    tableRepo,
		MenuRepo:     menuRepo,
		Availability: availability,
		Gateway:      gateway,
		ReturnURL:    returnURL,
	}
}

// ----- DTOs -----

type ReservationItemIn struct {
	MenuItemID  uint   `json:"menu_item_id"`
	Quantity    int    `json:"quantity"`
	ItemComment string `json:"item_comment"`
}

type CreateReservationReq struct {
	TableID          uint                `json:"table_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	StartAt          time.Time           `json:"start_at"`
	EndAt            time.Time           `json:"end_at"`
	Note             string              `json:"note"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentReturnURL string              `json:"payment_return_url"`
	Items            []ReservationItemIn `json:"items"`
}

type CreateReservationRes struct {
	ReservationID          uint   `json:"reservation_id"`
	Status                 string `json:"status"`
	TotalAmount            int64  `json:"total_amount"`
	PaymentMethod          string `json:"payment_method"`
	PaymentStatus          string `json:"payment_status"`
	PaymentID              string `json:"payment_id,omitempty"`
	PaymentConfirmationURL string `json:"payment_confirmation_url,omitempty"`
}

type UpdateReservationReq struct {
	TableID       uint                 `json:"table_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	StartAt       time.Time            `json:"start_at"`
	EndAt         time.Time            `json:"end_at"`
	Status        string               `json:"status"`
	Note          string               `json:"note"`
	Items         *[]ReservationItemIn `json:"items"` // nil keeps the existing pre-order
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ValidationError("start_at and end_at are required")
	}
	if !start.Before(end) {
		return ValidationError("start_at must be before end_at")
	}
	return nil
}

func validateReservationItems(items []ReservationItemIn) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return ValidationError("item quantity must be positive")
		}
	}
	return nil
}

// snapshotItems prices the pre-order at this moment and rejects items that
// are gone or marked unavailable.
func (s *ReservationService) snapshotItems(tx *gorm.DB, items []ReservationItemIn) (map[uint]entity.MenuItem, int64, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	menuItems, err := s.MenuRepo.GetMenuItemsByIDs(tx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]entity.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	var total int64
	for _, it := range items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			return nil, 0, ValidationError(fmt.Sprintf("menu item %d not found", it.MenuItemID))
		}
		if !m.IsAvailable {
			return nil, 0, ValidationError(fmt.Sprintf("menu item %q is unavailable", m.Name))
		}
		total += m.Price * int64(it.Quantity)
	}
	return byID, total, nil
}

// ----- Create -----

func (s *ReservationService) Create(ctx context.Context, req *CreateReservationReq) (*CreateReservationRes, error) {
	if req.TableID == 0 {
		return nil, ValidationError("table_id is required")
	}
	if req.CustomerName == "" {
		return nil, ValidationError("customer_name is required")
	}
	if err := validateWindow(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(req.PaymentMethod) {
		return nil, ValidationError("unknown payment_method")
	}
	if err := validateReservationItems(req.Items); err != nil {
		return nil, err
	}

	var out CreateReservationRes
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		table, err := s.TableRepo.GetTableForUpdate(tx, req.TableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "table"}
			}
			return err
		}

		ok, reason, err := s.Availability.CheckTable(tx, table, req.StartAt, req.EndAt, 0)
		if err != nil {
			return err
		}
		if !ok {
			return conflictError(reason)
		}

		byID, total, err := s.snapshotItems(tx, req.Items)
		if err != nil {
			return err
		}

		payStatus := entity.PaymentStatusUnpaid
		if req.PaymentMethod == entity.PaymentMethodCard {
			if total <= 0 {
				return ValidationError("card payment requires a positive total")
			}
			payStatus = entity.PaymentStatusPending
		}

		res := entity.Reservation{
			TableID:       req.TableID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			StartAt:       req.StartAt,
			EndAt:         req.EndAt,
			Status:        entity.ReservationStatusPending,
			Note:          req.Note,
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: payStatus,
		}
		if err := s.Repo.CreateReservation(tx, &res); err != nil {
			return err
		}

		for _, it := range req.Items {
			m := byID[it.MenuItemID]
			ri := entity.ReservationItem{
				ReservationID: res.ID,
				MenuItemID:    it.MenuItemID,
				Quantity:      it.Quantity,
				UnitPrice:     m.Price,
				ItemComment:   it.ItemComment,
			}
			if err := s.Repo.CreateReservationItem(tx, &ri); err != nil {
				return err
			}
		}

		out = CreateReservationRes{
			ReservationID: res.ID,
			Status:        res.Status,
			TotalAmount:   total,
			PaymentMethod: res.PaymentMethod,
			PaymentStatus: payStatus,
		}

		if req.PaymentMethod == entity.PaymentMethodCard {
			if !s.Gateway.IsConfigured() {
				return ErrPaymentUnavailable
			}
			returnURL := req.PaymentReturnURL
			if returnURL == "" {
				returnURL = s.ReturnURL
			}
			// The type tag routes the webhook back to this reservation.
			p, err := s.Gateway.CreatePayment(ctx, &yookassa.CreatePaymentRequest{
				Amount:      total,
				Description: fmt.Sprintf("Table reservation #%d pre-order", res.ID),
				ReturnURL:   returnURL,
				Metadata: map[string]string{
					"type":           "reservation_preorder",
					"reservation_id": fmt.Sprint(res.ID),
				},
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
			}

			fields := &entity.Reservation{
				PaymentID:              p.ID,
				PaymentStatus:          MapPaymentStatus(p.Status),
				PaymentConfirmationURL: p.ConfirmationURL(),
			}
			if _, err := s.Repo.UpdateReservation(tx, res.ID, fields); err != nil {
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

// ----- Update -----

// Update re-runs the same availability checks (excluding this booking from
// the overlap query) and, when items are supplied, replaces the pre-order
// wholesale and recomputes the total.
func (s *ReservationService) Update(ctx context.Context, reservationID uint, req *UpdateReservationReq) error {
	if req.TableID == 0 {
		return ValidationError("table_id is required")
	}
	if err := validateWindow(req.StartAt, req.EndAt); err != nil {
		return err
	}
	if req.Status != "" && !entity.ValidReservationStatus(req.Status) {
		return ValidationError("unknown status")
	}
	if req.Items != nil {
		if err := validateReservationItems(*req.Items); err != nil {
			return err
		}
	}

	if _, err := s.Repo.GetReservation(reservationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "reservation"}
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		table, err := s.TableRepo.GetTableForUpdate(tx, req.TableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "table"}
			}
			return err
		}

		ok, reason, err := s.Availability.CheckTable(tx, table, req.StartAt, req.EndAt, reservationID)
		if err != nil {
			return err
		}
		if !ok {
			return conflictError(reason)
		}

		fields := map[string]any{
			"table_id":       req.TableID,
			"customer_name":  req.CustomerName,
			"customer_phone": req.CustomerPhone,
			"start_at":       req.StartAt,
			"end_at":         req.EndAt,
			"note":           req.Note,
		}
		if req.Status != "" {
			fields["status"] = req.Status
		}
		if _, err := s.Repo.UpdateReservationFields(tx, reservationID, fields); err != nil {
			return err
		}

		if req.Items != nil {
			byID, total, err := s.snapshotItems(tx, *req.Items)
			if err != nil {
				return err
			}
			if err := s.Repo.DeleteItems(tx, reservationID); err != nil {
				return err
			}
			for _, it := range *req.Items {
				m := byID[it.MenuItemID]
				ri := entity.ReservationItem{
					ReservationID: reservationID,
					MenuItemID:    it.MenuItemID,
					Quantity:      it.Quantity,
					UnitPrice:     m.Price,
					ItemComment:   it.ItemComment,
				}
				if err := s.Repo.CreateReservationItem(tx, &ri); err != nil {
					return err
				}
			}
			if err := s.Repo.UpdateTotal(tx, reservationID, total); err != nil {
				return err
			}
		}

		return nil
	})
}

// ----- Status / delete / reads -----

func (s *ReservationService) UpdateStatus(reservationID uint, status string) error {
	if !entity.ValidReservationStatus(status) {
		return ValidationError("unknown status")
	}
	affected, err := s.Repo.UpdateStatus(reservationID, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "reservation"}
	}
	return nil
}

// Delete removes a booking, but only when no orders were placed against it.
func (s *ReservationService) Delete(reservationID uint) error {
	linked, err := s.OrderRepo.CountForReservation(reservationID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return &ConflictError{Reason: "linked_orders", Message: "reservation has linked orders, delete them first"}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.DeleteItems(tx, reservationID); err != nil {
			return err
		}
		affected, err := s.Repo.DeleteReservation(tx, reservationID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &NotFoundError{Entity: "reservation"}
		}
		return nil
	})
}

type ReservationView struct {
	entity.Reservation
	TableName string                   `json:"table_name,omitempty"`
	Items     []entity.ReservationItem `json:"items"`
}

func (s *ReservationService) List() ([]ReservationView, error) {
	reservations, err := s.Repo.ListReservations()
	if err != nil {
		return nil, err
	}
	out := make([]ReservationView, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, ReservationView{
			Reservation: res,
			TableName:   res.Table.Name,
			Items:       []entity.ReservationItem{},
		})
	}
	return out, nil
}

func (s *ReservationService) Get(reservationID uint) (*ReservationView, error) {
	res, err := s.Repo.GetReservation(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "reservation"}
		}
		return nil, err
	}
	items, err := s.Repo.GetReservationItems(res.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationView{Reservation: *res, Items: items}, nil
}
