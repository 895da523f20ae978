package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"gorm.io/gorm"
)

// MapPaymentStatus folds provider statuses into our payment_status set.
// Unknown statuses stay pending rather than guessing an outcome.
func MapPaymentStatus(providerStatus string) string {
	switch providerStatus {
	case "succeeded":
		return entity.PaymentStatusSucceeded
	case "waiting_for_capture", "pending", "waiting_for_payment":
		return entity.PaymentStatusPending
	case "canceled":
		return entity.PaymentStatusCanceled
	case "refunded":
		return entity.PaymentStatusRefunded
	default:
		return entity.PaymentStatusPending
	}
}

// WebhookEvent is the provider notification envelope. Object stays raw so
// the audit copy in payment_metadata is byte-exact.
type WebhookEvent struct {
	Event  string          `json:"event"`
	Object json.RawMessage `json:"object"`
}

type webhookPayment struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentMethod *struct {
		Type string `json:"type"`
	} `json:"payment_method"`
	Confirmation *struct {
		ConfirmationURL string `json:"confirmation_url"`
		URL             string `json:"url"`
	} `json:"confirmation"`
	Receipt *struct {
		RegistrationURL string `json:"registration_url"`
	} `json:"receipt"`
	ReceiptRegistration string `json:"receipt_registration"`
	// Provider echoes metadata as given, but re-sent values may come back
	// as numbers.
	Metadata map[string]any `json:"metadata"`
}

func (p *webhookPayment) receiptURL() string {
	if p.Receipt != nil && p.Receipt.RegistrationURL != "" {
		return p.Receipt.RegistrationURL
	}
	return p.ReceiptRegistration
}

func (p *webhookPayment) confirmationURL() string {
	if p.Confirmation == nil {
		return ""
	}
	if p.Confirmation.ConfirmationURL != "" {
		return p.Confirmation.ConfirmationURL
	}
	return p.Confirmation.URL
}

func metaUint(meta map[string]any, keys ...string) uint {
	for _, k := range keys {
		switch v := meta[k].(type) {
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
				return uint(n)
			}
		case float64:
			if v > 0 {
				return uint(v)
			}
		}
	}
	return 0
}

// WebhookService folds an authenticated provider notification into exactly
// one order or reservation. Authentication happens before this point; here
// the event is trusted.
type WebhookService struct {
	DB              *gorm.DB
	OrderRepo       *repository.OrderRepository
	ReservationRepo *repository.ReservationRepository
}

func NewWebhookService(db *gorm.DB, orderRepo *repository.OrderRepository, reservationRepo *repository.ReservationRepository) *WebhookService {
	return &WebhookService{DB: db, OrderRepo: orderRepo, ReservationRepo: reservationRepo}
}

// Process applies one payment-status event inside a single transaction.
// Redelivery of the same event is safe: the direct field update writes the
// same values again and the secondary transitions are guarded by their
// from-sets.
func (s *WebhookService) Process(event *WebhookEvent) error {
	if event == nil || event.Event == "" || len(event.Object) == 0 {
		return ValidationError("malformed notification")
	}

	var p webhookPayment
	if err := json.Unmarshal(event.Object, &p); err != nil {
		return ValidationError("malformed payment object")
	}

	entityType := "order"
	if v, ok := p.Metadata["type"].(string); ok && v != "" {
		entityType = v
	}
	isReservation := entityType == "reservation_preorder"

	var reservationID, orderID uint
	if isReservation {
		reservationID = metaUint(p.Metadata, "reservation_id", "order_id")
	} else {
		orderID = metaUint(p.Metadata, "order_id")
	}

	if (orderID == 0 && reservationID == 0) || p.ID == "" || p.Status == "" {
		return ValidationError("notification lacks payment data")
	}

	normalized := MapPaymentStatus(p.Status)
	isCard := p.PaymentMethod != nil && p.PaymentMethod.Type == "bank_card"
	meta := entity.PaymentMetadata{
		YooKassa: entity.YooKassaMeta{
			LastEvent: &entity.WebhookEvent{
				Event:      event.Event,
				ReceivedAt: time.Now().UTC().Format(time.RFC3339),
			},
			LastPayment: append(json.RawMessage(nil), event.Object...),
		},
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if isReservation {
			return s.applyToReservation(tx, reservationID, normalized, &p, isCard, meta)
		}
		return s.applyToOrder(tx, orderID, normalized, &p, isCard, meta)
	})
}

func (s *WebhookService) applyToOrder(tx *gorm.DB, orderID uint, normalized string, p *webhookPayment, isCard bool, meta entity.PaymentMetadata) error {
	fields := &entity.Order{
		PaymentStatus:     normalized,
		PaymentID:         p.ID,
		PaymentReceiptURL: p.receiptURL(), // empty keeps the stored one
		PaymentMetadata:   meta,
	}
	if isCard {
		fields.PaymentMethod = entity.PaymentMethodCard
	}

	affected, err := s.OrderRepo.UpdateOrderPayment(tx, orderID, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "order"}
	}

	switch {
	case normalized == entity.PaymentStatusSucceeded && isCard:
		_, err = s.OrderRepo.UpdateStatusGuard(tx, orderID,
			[]string{entity.OrderStatusPending}, entity.OrderStatusPreparing)
	case normalized == entity.PaymentStatusCanceled:
		_, err = s.OrderRepo.UpdateStatusGuard(tx, orderID,
			[]string{entity.OrderStatusPending, entity.OrderStatusPreparing}, entity.OrderStatusCancelled)
	}
	return err
}

func (s *WebhookService) applyToReservation(tx *gorm.DB, reservationID uint, normalized string, p *webhookPayment, isCard bool, meta entity.PaymentMetadata) error {
	fields := &entity.Reservation{
		PaymentStatus:          normalized,
		PaymentID:              p.ID,
		PaymentReceiptURL:      p.receiptURL(),
		PaymentConfirmationURL: p.confirmationURL(),
		PaymentMetadata:        meta,
	}
	if isCard {
		fields.PaymentMethod = entity.PaymentMethodCard
	}

	affected, err := s.ReservationRepo.UpdateReservation(tx, reservationID, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "reservation"}
	}

	switch normalized {
	case entity.PaymentStatusSucceeded:
		_, err = s.ReservationRepo.UpdateStatusGuard(tx, reservationID,
			[]string{entity.ReservationStatusPending}, entity.ReservationStatusConfirmed)
	case entity.PaymentStatusCanceled:
		// Release the slot but keep the booking around.
		_, err = s.ReservationRepo.UpdateStatusGuard(tx, reservationID,
			[]string{entity.ReservationStatusPending, entity.ReservationStatusConfirmed},
			entity.ReservationStatusPending)
	}
	return err
}

// PaymentLookup answers the public "what happened to my payment" query.
type PaymentLookup struct {
	EntityType  string              `json:"entity_type"`
	Order       *entity.Order       `json:"order,omitempty"`
	Reservation *entity.Reservation `json:"reservation,omitempty"`
}

func (s *WebhookService) LookupByPaymentID(paymentID string) (*PaymentLookup, error) {
	if paymentID == "" {
		return nil, ValidationError("payment id is required")
	}

	o, err := s.OrderRepo.GetByPaymentID(paymentID)
	if err == nil {
		return &PaymentLookup{EntityType: "order", Order: o}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	res, err := s.ReservationRepo.GetByPaymentID(paymentID)
	if err == nil {
		return &PaymentLookup{EntityType: "reservation", Reservation: res}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, &NotFoundError{Entity: "payment"}
}
