package infra

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockatelier/internal/model"
)

// NewDatabase opens the SQLite file and runs AutoMigrate for every table.
// SQLite needs foreign_keys switched on per connection for the FK constraints
// to bite.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.StockItem{},
		&model.Machine{},
		&model.MachineFile{},
		&model.MaintenanceRecord{},
	)
}
