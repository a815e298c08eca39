package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/portal"
	"github.com/viola-academy/portal-client/prefs"
)

// Payment methods the form accepts.
const (
	PayWallet = "wallet"
	PayCash   = "cash"
)

// Form is the checkout input a parent submits.
type Form struct {
	ParentName    string `json:"parentName" validate:"required,min=2"`
	Phone         string `json:"phone" validate:"required,numeric,min=4,max=10"`
	StudentID     string `json:"studentId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=wallet cash"`
}

// Service runs the purchase flow against the gateway, keeping the local
// wallet mirror consistent with the authoritative student record.
type Service struct {
	client   *portal.Client
	store    *prefs.Store
	carts    *Carts
	log      *logger.Logger
	validate *validator.Validate
	trans    ut.Translator
}

// NewService wires the checkout flow.
func NewService(client *portal.Client, store *prefs.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("checkout")
	}
	validate, trans := newValidator()
	return &Service{
		client:   client,
		store:    store,
		carts:    NewCarts(store),
		log:      log,
		validate: validate,
		trans:    trans,
	}
}

// Carts exposes the cart manager.
func (s *Service) Carts() *Carts { return s.carts }

// WalletBalance returns the locally mirrored balance for display.
func (s *Service) WalletBalance() float64 {
	return s.store.StudentCredit()
}

// ReconcileWallet refreshes the local mirror from the authoritative student
// record and returns the live balance. Call it on dashboard load; the mirror
// is a read optimization and this is the only way it gets ahead of drift.
func (s *Service) ReconcileWallet(ctx context.Context, studentID string) (float64, error) {
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return s.store.StudentCredit(), err
	}
	for _, st := range students {
		if st.ID == studentID {
			s.store.SetStudentCredit(st.Credit)
			return st.Credit, nil
		}
	}
	return s.store.StudentCredit(), portal.ErrNotFound()
}

// Checkout submits one cart as an order. Wallet payments debit the student's
// credit optimistically: the mirror is deducted first for instant UI
// feedback, then the order and the credit write must both confirm. Any write
// failure rolls the mirror back to the authoritative balance, and the cart is
// cleared only after the order is confirmed server-side.
func (s *Service) Checkout(ctx context.Context, cartCtx Context, form Form) (*portal.Order, error) {
	if err := translate(s.validate.Struct(form), s.trans); err != nil {
		return nil, err
	}

	items := s.carts.Items(cartCtx)
	if len(items) == 0 {
		return nil, portal.NewValidationError(
			fmt.Errorf("cart is empty"),
			portal.FieldError{Field: "items", Message: "Your cart is empty."},
		)
	}
	var total float64
	for _, item := range items {
		total += item.Price
	}

	// The roster read gates the purchase: without the authoritative balance
	// there is nothing safe to debit against.
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, st := range students {
		if st.ID == form.StudentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, portal.ErrNotFound()
	}
	student := students[idx]

	wallet := form.PaymentMethod == PayWallet
	if wallet && student.Credit < total {
		return nil, portal.ErrInsufficientFunds()
	}

	originalCredit := student.Credit
	newCredit := originalCredit - total
	if wallet {
		s.store.SetStudentCredit(newCredit)
	}

	order := portal.Order{
		ID:             NewOrderID(),
		Date:           time.Now().Format("2006-01-02"),
		ParentName:     form.ParentName,
		Phone:          form.Phone,
		StudentDetails: fmt.Sprintf("%s (%s)", student.Name, student.Grade),
		Items:          items,
		Total:          total,
		PaymentMethod:  form.PaymentMethod,
		Status:         portal.OrderPending,
	}

	if err := s.client.Orders().SaveOrder(ctx, order); err != nil {
		if wallet {
			s.store.SetStudentCredit(originalCredit)
		}
		s.log.Warnf("order write failed, wallet mirror restored: %v", err)
		return nil, err
	}

	if wallet {
		students[idx].Credit = newCredit
		if err := s.client.Students().Save(ctx, students); err != nil {
			// The order exists but the debit did not land; the authoritative
			// balance is still the original, so the mirror reverts to it.
			s.store.SetStudentCredit(originalCredit)
			s.log.Errorf("credit write failed after order %s: %v", order.ID, err)
			return nil, err
		}
		s.store.SetStudentCredit(newCredit)
	}

	s.carts.Clear(cartCtx)
	s.log.WithField("order", order.ID).WithField("total", total).Info("checkout complete")
	return &order, nil
}

// TopUp adds funds to a student wallet and returns the new balance.
func (s *Service) TopUp(ctx context.Context, studentID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, portal.NewValidationError(
			fmt.Errorf("invalid top-up amount"),
			portal.FieldError{Field: "amount", Message: "Amount must be greater than zero."},
		)
	}
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return 0, err
	}
	idx := -1
	for i, st := range students {
		if st.ID == studentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, portal.ErrNotFound()
	}

	newCredit := students[idx].Credit + amount
	students[idx].Credit = newCredit
	if err := s.client.Students().Save(ctx, students); err != nil {
		return 0, err
	}
	s.store.SetStudentCredit(newCredit)
	s.log.WithField("student", studentID).Infof("wallet topped up by %.2f", amount)
	return newCredit, nil
}

// NewOrderID builds a client-side order id: millisecond timestamp plus a
// random fragment. Collision-resistant enough for a school's order volume,
// not globally unique.
func NewOrderID() string {
	fragment := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fragment)
}
