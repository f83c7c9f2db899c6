package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"stockatelier/internal/dto"
	"stockatelier/internal/filestore"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"

	"github.com/rs/zerolog/log"
)

const defaultMachineAlertThreshold = 5

// MachineService is the resource manager for machines and their attached
// files. Uploads reach it as (original name, reader) pairs so the service
// stays independent of the HTTP layer.
type MachineService interface {
	List(ctx context.Context) ([]model.Machine, error)
	Get(ctx context.Context, id uint) (*model.Machine, error)
	Create(ctx context.Context, form dto.MachineForm, modelName string, modelSrc io.Reader) (*model.Machine, error)
	Update(ctx context.Context, id uint, form dto.MachineForm, canEditPrices bool, modelName string, modelSrc io.Reader) (*model.Machine, error)
	Delete(ctx context.Context, id uint) error

	ListFiles(ctx context.Context, machineID uint) ([]model.MachineFile, error)
	AttachDocument(ctx context.Context, machineID uint, originalName string, src io.Reader) (*model.MachineFile, error)
	DetachDocument(ctx context.Context, fileID uint) error
}

type machineService struct {
	repo  repository.MachineRepository
	files *filestore.Store
}

func NewMachineService(repo repository.MachineRepository, files *filestore.Store) MachineService {
	return &machineService{repo: repo, files: files}
}

func (s *machineService) List(ctx context.Context) ([]model.Machine, error) {
	return s.repo.List(ctx)
}

func (s *machineService) Get(ctx context.Context, id uint) (*model.Machine, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return m, nil
}

func (s *machineService) Create(ctx context.Context, form dto.MachineForm, modelName string, modelSrc io.Reader) (*model.Machine, error) {
	if err := validateMachineForm(form); err != nil {
		return nil, err
	}

	m := machineFromForm(form)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	if modelSrc != nil {
		storedPath, err := s.files.SaveModel(m.ID, modelName, modelSrc)
		if err != nil {
			// A create-side file failure is fatal: no row may point at a
			// file that was never written.
			if _, delErr := s.repo.DeleteCascade(ctx, m.ID); delErr != nil {
				log.Error().Err(delErr).Uint("machine_id", m.ID).Msg("rollback after model upload failure")
			}
			return nil, err
		}
		m.ModelAssetPath = storedPath
		if err := s.repo.Update(ctx, m); err != nil {
			s.removeFromDisk(storedPath)
			if _, delErr := s.repo.DeleteCascade(ctx, m.ID); delErr != nil {
				log.Error().Err(delErr).Uint("machine_id", m.ID).Msg("rollback after asset bookkeeping failure")
			}
			return nil, err
		}
	}
	return m, nil
}

func (s *machineService) Update(ctx context.Context, id uint, form dto.MachineForm, canEditPrices bool, modelName string, modelSrc io.Reader) (*model.Machine, error) {
	if err := validateMachineForm(form); err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	prev := m.Price
	next := machineFromForm(form)
	m.Name = next.Name
	m.Reference = next.Reference
	m.Quantity = next.Quantity
	m.Location = next.Location
	m.AlertThreshold = next.AlertThreshold
	m.Dimensions = next.Dimensions
	m.Weight = next.Weight
	m.CADLinkPath = next.CADLinkPath
	if canEditPrices {
		m.Price = next.Price
	} else {
		m.Price = prev
	}

	if modelSrc != nil {
		storedPath, err := s.files.SaveModel(m.ID, modelName, modelSrc)
		if err != nil {
			return nil, err
		}
		// Replacing the asset discards the previous file. Leaving the old
		// bytes behind would orphan them forever.
		if m.ModelAssetPath != "" && m.ModelAssetPath != storedPath {
			s.removeFromDisk(m.ModelAssetPath)
		}
		m.ModelAssetPath = storedPath
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the machine and everything it owns. Row deletes are one
// transaction; disk cleanup happens after commit and is best-effort — a
// missing file never blocks a delete the user asked for.
func (s *machineService) Delete(ctx context.Context, id uint) error {
	paths, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return asNotFound(err)
	}
	for _, p := range paths {
		s.removeFromDisk(p)
	}
	if err := s.files.RemoveAllForMachine(id); err != nil {
		log.Warn().Err(err).Uint("machine_id", id).Msg("upload subtree cleanup failed")
	}
	return nil
}

func (s *machineService) ListFiles(ctx context.Context, machineID uint) ([]model.MachineFile, error) {
	if _, err := s.repo.FindByID(ctx, machineID); err != nil {
		return nil, asNotFound(err)
	}
	return s.repo.ListFiles(ctx, machineID)
}

func (s *machineService) AttachDocument(ctx context.Context, machineID uint, originalName string, src io.Reader) (*model.MachineFile, error) {
	if _, err := s.repo.FindByID(ctx, machineID); err != nil {
		return nil, asNotFound(err)
	}

	storedPath, err := s.files.SaveDocument(machineID, originalName, src)
	if err != nil {
		return nil, err
	}

	f := &model.MachineFile{
		MachineID:  machineID,
		Filename:   originalName,
		StoredPath: storedPath,
		FileType:   strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), "."),
	}
	if err := s.repo.CreateFile(ctx, f); err != nil {
		s.removeFromDisk(storedPath)
		return nil, err
	}
	return f, nil
}

func (s *machineService) DetachDocument(ctx context.Context, fileID uint) error {
	f, err := s.repo.FindFileByID(ctx, fileID)
	if err != nil {
		return asNotFound(err)
	}
	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		return asNotFound(err)
	}
	s.removeFromDisk(f.StoredPath)
	return nil
}

func (s *machineService) removeFromDisk(storedPath string) {
	if err := s.files.Remove(storedPath); err != nil {
		log.Warn().Err(err).Str("path", storedPath).Msg("file cleanup failed")
	}
}

func machineFromForm(form dto.MachineForm) *model.Machine {
	return &model.Machine{
		Name:           form.Name,
		Reference:      form.Reference,
		Quantity:       nonNegative(dto.CoerceInt(form.Quantity, 0)),
		Location:       form.Location,
		Price:          nonNegativeDecimal(dto.CoerceDecimal(form.Price)),
		AlertThreshold: nonNegative(dto.CoerceInt(form.AlertThreshold, defaultMachineAlertThreshold)),
		Dimensions:     form.Dimensions,
		Weight:         nonNegativeFloat(dto.CoerceFloat(form.Weight, 0)),
		CADLinkPath:    form.CADLinkPath,
	}
}

func validateMachineForm(form dto.MachineForm) error {
	if form.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if form.Reference == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}
	return nil
}
