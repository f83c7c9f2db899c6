package repository

import (
	"context"

	"stockatelier/internal/model"

	"gorm.io/gorm"
)

// MachineRepository is the data access contract for machines and the rows
// they own (attached files, maintenance records).
type MachineRepository interface {
	Create(ctx context.Context, m *model.Machine) error
	FindByID(ctx context.Context, id uint) (*model.Machine, error)
	List(ctx context.Context) ([]model.Machine, error)
	Update(ctx context.Context, m *model.Machine) error
	// DeleteCascade removes the machine with its file and maintenance rows in
	// one transaction and returns the stored paths that were referenced, so
	// the caller can clean the disk after commit.
	DeleteCascade(ctx context.Context, id uint) ([]string, error)
	Count(ctx context.Context) (int64, error)

	// Files
	CreateFile(ctx context.Context, f *model.MachineFile) error
	FindFileByID(ctx context.Context, fileID uint) (*model.MachineFile, error)
	ListFiles(ctx context.Context, machineID uint) ([]model.MachineFile, error)
	DeleteFile(ctx context.Context, fileID uint) error
	ListAllFiles(ctx context.Context) ([]model.MachineFile, error)

	// Maintenance records
	CreateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error
	FindMaintenanceByID(ctx context.Context, id uint) (*model.MaintenanceRecord, error)
	ListMaintenances(ctx context.Context, machineID uint) ([]model.MaintenanceRecord, error)
	UpdateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error
	DeleteMaintenance(ctx context.Context, id uint) error
}

type machineRepo struct{ db *gorm.DB }

func NewMachineRepository(db *gorm.DB) MachineRepository { return &machineRepo{db: db} }

func (r *machineRepo) Create(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineRepo) FindByID(ctx context.Context, id uint) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *machineRepo) List(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&machines).Error
	return machines, err
}

func (r *machineRepo) Update(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *machineRepo) DeleteCascade(ctx context.Context, id uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Machine
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if m.ModelAssetPath != "" {
			paths = append(paths, m.ModelAssetPath)
		}

		var files []model.MachineFile
		if err := tx.Where("machine_id = ?", id).Find(&files).Error; err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.StoredPath)
		}

		if err := tx.Where("machine_id = ?", id).Delete(&model.MachineFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.MaintenanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Machine{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *machineRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Machine{}).Count(&n).Error
	return n, err
}

// ── Files ────────────────────────────────────────────────────────────────────

func (r *machineRepo) CreateFile(ctx context.Context, f *model.MachineFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *machineRepo) FindFileByID(ctx context.Context, fileID uint) (*model.MachineFile, error) {
	var f model.MachineFile
	err := r.db.WithContext(ctx).First(&f, fileID).Error
	return &f, err
}

func (r *machineRepo) ListFiles(ctx context.Context, machineID uint) ([]model.MachineFile, error) {
	var files []model.MachineFile
	err := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

func (r *machineRepo) DeleteFile(ctx context.Context, fileID uint) error {
	res := r.db.WithContext(ctx).Delete(&model.MachineFile{}, fileID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *machineRepo) ListAllFiles(ctx context.Context) ([]model.MachineFile, error) {
	var files []model.MachineFile
	err := r.db.WithContext(ctx).Find(&files).Error
	return files, err
}

// ── Maintenance records ──────────────────────────────────────────────────────

func (r *machineRepo) CreateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *machineRepo) FindMaintenanceByID(ctx context.Context, id uint) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *machineRepo) ListMaintenances(ctx context.Context, machineID uint) ([]model.MaintenanceRecord, error) {
	var recs []model.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("scheduled_date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *machineRepo) UpdateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *machineRepo) DeleteMaintenance(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.MaintenanceRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
