// Package adminops implements the administrator maintenance operations:
// roster edits, class management, wallet grants, order status updates, data
// backup, and the local factory reset. Destructive operations re-verify the
// admin credential before touching anything.
package adminops

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/portal"
	"github.com/viola-academy/portal-client/prefs"
)

// Confirmation is the re-entered admin credential a destructive operation
// demands. It is used for one live check and never stored.
type Confirmation struct {
	Username string
	Password string
}

// Service runs admin operations against the gateway.
type Service struct {
	client *portal.Client
	store  *prefs.Store
	log    *logger.Logger
}

// NewService wires the admin operations.
func NewService(client *portal.Client, store *prefs.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("adminops")
	}
	return &Service{client: client, store: store, log: log}
}

func (s *Service) confirm(ctx context.Context, conf Confirmation) error {
	return s.client.Session().ReverifyAdmin(ctx, conf.Username, conf.Password)
}

// DeleteStudent removes one student from the roster. Destructive: the
// credential is re-verified first.
func (s *Service) DeleteStudent(ctx context.Context, conf Confirmation, studentID string) error {
	if err := s.confirm(ctx, conf); err != nil {
		return err
	}
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return err
	}
	kept := make([]portal.Student, 0, len(students))
	for _, st := range students {
		if st.ID != studentID {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(students) {
		return portal.ErrNotFound()
	}
	if err := s.client.Students().Save(ctx, kept); err != nil {
		return err
	}
	s.log.WithField("student", studentID).Warn("student deleted")
	return nil
}

// AddClass appends a new class label.
func (s *Service) AddClass(ctx context.Context, name string) error {
	if name == "" {
		return portal.NewValidationError(
			fmt.Errorf("class name required"),
			portal.FieldError{Field: "name", Message: "Class name is required."},
		)
	}
	classes, err := s.client.Classes().Fetch(ctx)
	if err != nil {
		return err
	}
	for _, c := range classes {
		if c == name {
			return portal.NewValidationError(
				fmt.Errorf("class exists"),
				portal.FieldError{Field: "name", Message: "A class with this name already exists."},
			)
		}
	}
	return s.client.Classes().Save(ctx, append(classes, name))
}

// DeleteClass removes a class label from the list. It deliberately does not
// cascade: students keep their (now dangling) class label and appear under
// "unassigned" in the UI until moved with TransferStudents.
func (s *Service) DeleteClass(ctx context.Context, conf Confirmation, name string) error {
	if err := s.confirm(ctx, conf); err != nil {
		return err
	}
	classes, err := s.client.Classes().Fetch(ctx)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(classes) {
		return portal.ErrNotFound()
	}
	if err := s.client.Classes().Save(ctx, kept); err != nil {
		return err
	}
	s.log.WithField("class", name).Warn("class deleted, students left unassigned")
	return nil
}

// TransferStudents moves every student in one class to another and returns
// how many moved.
func (s *Service) TransferStudents(ctx context.Context, from, to string) (int, error) {
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range students {
		if students[i].Grade == from {
			students[i].Grade = to
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}
	if err := s.client.Students().Save(ctx, students); err != nil {
		return 0, err
	}
	s.log.Infof("moved %d students from %s to %s", moved, from, to)
	return moved, nil
}

// GrantCredit adds funds to a student wallet from the admin side and returns
// the new balance. The local wallet mirror belongs to the parent's device and
// is not touched here; it reconciles on their next dashboard load.
func (s *Service) GrantCredit(ctx context.Context, studentID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, portal.NewValidationError(
			fmt.Errorf("invalid amount"),
			portal.FieldError{Field: "amount", Message: "Amount must be greater than zero."},
		)
	}
	students, err := s.client.Students().Fetch(ctx)
	if err != nil {
		return 0, err
	}
	for i := range students {
		if students[i].ID == studentID {
			students[i].Credit += amount
			if err := s.client.Students().Save(ctx, students); err != nil {
				return 0, err
			}
			return students[i].Credit, nil
		}
	}
	return 0, portal.ErrNotFound()
}

// UpdateOrderStatus sets one order's status.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status portal.OrderStatus) error {
	orders, err := s.client.Orders().Fetch(ctx)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			orders[i].Status = status
			return s.client.Orders().Save(ctx, orders)
		}
	}
	return portal.ErrNotFound()
}

// Backup exports every dashboard entity as a single JSON document. It is
// strict: a backup with silently missing sections is worse than no backup.
func (s *Service) Backup(ctx context.Context) ([]byte, error) {
	dashboard, err := s.client.LoadDashboard(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// FactoryReset wipes every local preference under the application namespace.
// Remote data is untouched; only this device forgets its state. Destructive:
// the credential is re-verified first.
func (s *Service) FactoryReset(ctx context.Context, conf Confirmation) error {
	if err := s.confirm(ctx, conf); err != nil {
		return err
	}
	s.store.Clear()
	s.log.Warn("local preferences wiped")
	return nil
}
