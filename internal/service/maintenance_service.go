package service

import (
	"context"
	"fmt"
	"time"

	"stockatelier/internal/dto"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"
)

// MaintenanceService manages the maintenance history nested under a machine.
type MaintenanceService interface {
	List(ctx context.Context, machineID uint) ([]model.MaintenanceRecord, error)
	Create(ctx context.Context, machineID uint, req dto.MaintenanceRequest) (*model.MaintenanceRecord, error)
	Update(ctx context.Context, machineID, recordID uint, req dto.MaintenanceRequest) (*model.MaintenanceRecord, error)
	Delete(ctx context.Context, machineID, recordID uint) error
}

type maintenanceService struct {
	repo repository.MachineRepository
}

func NewMaintenanceService(repo repository.MachineRepository) MaintenanceService {
	return &maintenanceService{repo: repo}
}

func (s *maintenanceService) List(ctx context.Context, machineID uint) ([]model.MaintenanceRecord, error) {
	if _, err := s.repo.FindByID(ctx, machineID); err != nil {
		return nil, asNotFound(err)
	}
	return s.repo.ListMaintenances(ctx, machineID)
}

func (s *maintenanceService) Create(ctx context.Context, machineID uint, req dto.MaintenanceRequest) (*model.MaintenanceRecord, error) {
	if _, err := s.repo.FindByID(ctx, machineID); err != nil {
		return nil, asNotFound(err)
	}
	rec, err := maintenanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	rec.MachineID = machineID
	if err := s.repo.CreateMaintenance(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *maintenanceService) Update(ctx context.Context, machineID, recordID uint, req dto.MaintenanceRequest) (*model.MaintenanceRecord, error) {
	existing, err := s.repo.FindMaintenanceByID(ctx, recordID)
	if err != nil || existing.MachineID != machineID {
		return nil, asNotFound(errOrNotFound(err))
	}
	next, err := maintenanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	existing.Title = next.Title
	existing.Description = next.Description
	existing.ScheduledDate = next.ScheduledDate
	existing.CompletedDate = next.CompletedDate
	existing.Status = next.Status
	existing.Priority = next.Priority
	if err := s.repo.UpdateMaintenance(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *maintenanceService) Delete(ctx context.Context, machineID, recordID uint) error {
	existing, err := s.repo.FindMaintenanceByID(ctx, recordID)
	if err != nil || existing.MachineID != machineID {
		return asNotFound(errOrNotFound(err))
	}
	return asNotFound(s.repo.DeleteMaintenance(ctx, recordID))
}

func maintenanceFromRequest(req dto.MaintenanceRequest) (*model.MaintenanceRecord, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := req.Status
	if status == "" {
		status = model.MaintenanceScheduled
	}
	if !model.ValidMaintenanceStatus(status) {
		return nil, fmt.Errorf("%w: status must be scheduled, in_progress or completed", ErrInvalidInput)
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be low, medium, high or critical", ErrInvalidInput)
	}

	scheduled, err := parseDate(req.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad scheduled_date", ErrInvalidInput)
	}

	rec := &model.MaintenanceRecord{
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: scheduled,
		Status:        status,
		Priority:      priority,
	}
	if req.CompletedDate != "" {
		completed, err := parseDate(req.CompletedDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad completed_date", ErrInvalidInput)
		}
		rec.CompletedDate = &completed
	}
	return rec, nil
}

// parseDate accepts the two formats the clients send: plain dates from the
// form date picker and RFC 3339 timestamps. Empty means "today".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// errOrNotFound keeps ownership mismatches indistinguishable from a missing
// record.
func errOrNotFound(err error) error {
	if err != nil {
		return err
	}
	return ErrNotFound
}
