// Package service exposes the operation-level API of the quality
// control core to its UI collaborators. Business failures (rejected
// parts, duplicate IDs, denied access) come back as typed results and
// sentinel errors, never as panics; persistence faults roll the
// in-memory state back before surfacing.
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/auth"
	"github.com/rfagundes/quality-control/internal/metrics"
	"github.com/rfagundes/quality-control/internal/quality"
	"github.com/rfagundes/quality-control/internal/report"
	"github.com/rfagundes/quality-control/internal/storage"
)

// InspectionResult is the outcome of submitting a part to the gate.
type InspectionResult struct {
	ID              string   `json:"id"`
	Approved        bool     `json:"approved"`
	Reasons         []string `json:"reasons,omitempty"`
	ContainerNumber int      `json:"container_number,omitempty"`
	SlotsRemaining  int      `json:"slots_remaining,omitempty"`
	ContainerClosed bool     `json:"container_closed,omitempty"`
}

// UserRequest carries the fields of a user-management operation.
type UserRequest struct {
	Username    string    `json:"username"`
	NewUsername string    `json:"new_username,omitempty"`
	Password    string    `json:"password,omitempty"`
	DisplayName string    `json:"display_name"`
	Role        auth.Role `json:"role"`
	Active      bool      `json:"active"`
}

// Service wires the ledger, the criteria store, access control, the
// audit trail and the reporting engine behind one façade.
type Service struct {
	storage  *storage.FileStorage
	settings *storage.SettingsStore
	auth     *auth.Service
	auditor  auth.Auditor
	log      *zap.Logger
	now      func() time.Time
}

func New(st *storage.FileStorage, settings *storage.SettingsStore, authSvc *auth.Service, auditor auth.Auditor, log *zap.Logger) *Service {
	return &Service{
		storage:  st,
		settings: settings,
		auth:     authSvc,
		auditor:  auditor,
		log:      log,
		now:      time.Now,
	}
}

// SubmitPart runs a new part through the quality gate. Duplicate IDs
// surface as storage.ErrDuplicateID.
func (s *Service) SubmitPart(id string, weight float64, color string, length float64, operator string) (*InspectionResult, error) {
	settings := s.settings.Get()
	part := quality.NewPart(id, weight, color, length, operator, s.now())

	outcome, err := s.storage.Record(part, settings.Criteria, settings.ContainerCapacity)
	if err != nil {
		return nil, err
	}

	verdict := "rejected"
	if outcome.Approved {
		verdict = "approved"
	}
	metrics.PartsInspectedTotal.WithLabelValues(verdict).Inc()
	if outcome.ContainerClosed {
		metrics.ContainersClosedTotal.Inc()
	}
	s.updateFillGauge()

	s.auditor.Record(operator, "PART_SUBMITTED",
		fmt.Sprintf("id: %s, verdict: %s", part.ID, verdict))
	s.log.Info("part inspected",
		zap.String("id", part.ID),
		zap.String("verdict", verdict),
		zap.String("operator", operator))

	return resultFromOutcome(outcome), nil
}

// RemovePart deletes a part by ID on behalf of actor. Not-found is
// reported as storage.ErrPartNotFound without touching disk.
func (s *Service) RemovePart(id, actor string) error {
	part, err := s.storage.Remove(id)
	if err != nil {
		return err
	}

	metrics.PartsRemovedTotal.Inc()
	s.updateFillGauge()
	s.auditor.Record(actor, "PART_REMOVED", fmt.Sprintf("id: %s", part.ID))
	return nil
}

// EditPart updates a part's measurements and re-runs validation, which
// may move it between the approved and rejected collections.
func (s *Service) EditPart(id string, weight float64, color string, length float64, actor string) (*InspectionResult, error) {
	settings := s.settings.Get()

	outcome, err := s.storage.Update(id, weight, color, length, settings.Criteria, settings.ContainerCapacity)
	if err != nil {
		return nil, err
	}

	if outcome.ContainerClosed {
		metrics.ContainersClosedTotal.Inc()
	}
	s.updateFillGauge()
	s.auditor.Record(actor, "PART_EDITED",
		fmt.Sprintf("id: %s, approved: %t", outcome.Part.ID, outcome.Approved))
	return resultFromOutcome(outcome), nil
}

// Report aggregates the ledger, optionally narrowed by date range and
// operator.
func (s *Service) Report(from, to *time.Time, operator string) report.Report {
	settings := s.settings.Get()
	return report.Build(s.storage.Snapshot(), report.Options{
		From:     from,
		To:       to,
		Operator: operator,
	}, settings.Goals.Daily, s.now())
}

// Containers returns the closed containers plus the open one.
func (s *Service) Containers() ([]storage.Container, storage.Container) {
	snapshot := s.storage.Snapshot()
	return snapshot.Closed, snapshot.Current
}

// Login authenticates a user.
func (s *Service) Login(username, password string) (*auth.User, error) {
	return s.auth.Authenticate(username, password)
}

// CreateUser registers an account. Administrator only.
func (s *Service) CreateUser(caller *auth.User, req UserRequest) error {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return err
	}
	return s.auth.CreateUser(req.Username, req.Password, req.DisplayName, req.Role)
}

// EditUser updates an account, optionally renaming it. Administrator
// only.
func (s *Service) EditUser(caller *auth.User, req UserRequest) error {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return err
	}
	return s.auth.EditUser(req.Username, req.NewUsername, req.DisplayName, req.Role, req.Active)
}

// DeleteUser removes an account. Administrator only; the bootstrap
// administrator is refused.
func (s *Service) DeleteUser(caller *auth.User, username string) error {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return err
	}
	return s.auth.DeleteUser(username)
}

// ResetPassword replaces a user's password. Administrator only.
func (s *Service) ResetPassword(caller *auth.User, username, newPassword string) error {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return err
	}
	return s.auth.ResetPassword(username, newPassword)
}

// ListUsers returns all accounts. Administrator only.
func (s *Service) ListUsers(caller *auth.User) ([]auth.User, error) {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return nil, err
	}
	return s.auth.ListUsers(), nil
}

// UpdateCriteria replaces the settings document. Administrator only.
// The new capacity applies to containers created from now on.
func (s *Service) UpdateCriteria(caller *auth.User, settings storage.Settings) error {
	if err := s.auth.Authorize(caller, auth.RoleAdministrator); err != nil {
		return err
	}
	if err := s.settings.Update(settings); err != nil {
		return err
	}

	s.auditor.Record(caller.Username, "CRITERIA_UPDATED",
		fmt.Sprintf("capacity: %d, weight: %.4g-%.4g, length: %.4g-%.4g, colors: %v",
			settings.ContainerCapacity,
			settings.Criteria.WeightMin, settings.Criteria.WeightMax,
			settings.Criteria.LengthMin, settings.Criteria.LengthMax,
			settings.Criteria.AcceptedColors))
	return nil
}

// Settings returns the current settings document.
func (s *Service) Settings() storage.Settings {
	return s.settings.Get()
}

func (s *Service) updateFillGauge() {
	snapshot := s.storage.Snapshot()
	metrics.CurrentContainerFill.Set(float64(len(snapshot.Current.Parts)))
}

func resultFromOutcome(outcome *storage.InspectionOutcome) *InspectionResult {
	return &InspectionResult{
		ID:              outcome.Part.ID,
		Approved:        outcome.Approved,
		Reasons:         outcome.Reasons,
		ContainerNumber: outcome.ContainerNumber,
		SlotsRemaining:  outcome.SlotsRemaining,
		ContainerClosed: outcome.ContainerClosed,
	}
}
