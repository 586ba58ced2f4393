package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage wraps an opened dialector. Open picks the dialector from
// the configured driver.
func NewGormStorage(dialector gorm.Dialector) (*GormStorage, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return &GormStorage{db: db}, nil
}

func models() []any {
	return []any{
		&Building{},
		&Occupant{},
		&MeasuringDevice{},
		&BillingPeriod{},
		&EnergyBill{},
		&ConsumptionRecord{},
	}
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "sqlite" {
		if err := decimalsAsText(db); err != nil {
			return err
		}
	}
	return db.AutoMigrate(models()...)
}

// decimalsAsText switches the numeric columns of the cached model schemas
// to TEXT. SQLite gives a NUMERIC column REAL affinity for decimal strings,
// which keeps only 15 significant digits.
func decimalsAsText(db *gorm.DB) error {
	for _, m := range models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return fmt.Errorf("parse %T: %w", m, err)
		}
		for _, f := range stmt.Schema.Fields {
			if strings.EqualFold(string(f.DataType), "numeric") {
				f.DataType = "text"
			}
		}
	}
	return nil
}

// first loads a single row into dest. A missing row yields (false, nil).
func (s *GormStorage) first(ctx context.Context, dest any, id string) (bool, error) {
	result := s.db.WithContext(ctx).First(dest, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// update overwrites every column of an existing row except its identity.
func (s *GormStorage) update(ctx context.Context, model any, id string) error {
	return affected(s.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(model))
}

func (s *GormStorage) setArchived(ctx context.Context, model any, id string, archived bool) error {
	var deletedAt *time.Time
	if archived {
		now := time.Now()
		deletedAt = &now
	}
	return affected(s.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": archived, "deleted_at": deletedAt}))
}

// Buildings

func (s *GormStorage) CreateBuilding(ctx context.Context, b Building) error {
	return s.db.WithContext(ctx).Create(&b).Error
}

func (s *GormStorage) GetBuilding(ctx context.Context, id string) (*Building, error) {
	var b Building
	ok, err := s.first(ctx, &b, id)
	if !ok {
		return nil, err
	}
	return &b, nil
}

func (s *GormStorage) ListBuildings(ctx context.Context) ([]Building, error) {
	var buildings []Building
	result := s.db.WithContext(ctx).Order("name, id").Find(&buildings)
	return buildings, result.Error
}

func (s *GormStorage) UpdateBuilding(ctx context.Context, b Building) error {
	return s.update(ctx, &b, b.ID)
}

func (s *GormStorage) DeleteBuilding(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occupants := tx.Model(&Occupant{}).Select("id").Where("building_id = ?", id)
		devices := tx.Model(&MeasuringDevice{}).Select("id").Where("occupant_id IN (?)", occupants)
		periods := tx.Model(&BillingPeriod{}).Select("id").Where("building_id = ?", id)

		if err := tx.Where("billing_period_id IN (?) OR measuring_device_id IN (?)", periods, devices).
			Delete(&ConsumptionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("billing_period_id IN (?) OR building_id = ? OR occupant_id IN (?)", periods, id, occupants).
			Delete(&EnergyBill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("occupant_id IN (?)", occupants).Delete(&MeasuringDevice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("building_id = ?", id).Delete(&Occupant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("building_id = ?", id).Delete(&BillingPeriod{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&Building{}, "id = ?", id))
	})
}

// Occupants

func (s *GormStorage) CreateOccupant(ctx context.Context, o Occupant) error {
	return s.db.WithContext(ctx).Create(&o).Error
}

func (s *GormStorage) GetOccupant(ctx context.Context, id string) (*Occupant, error) {
	var o Occupant
	ok, err := s.first(ctx, &o, id)
	if !ok {
		return nil, err
	}
	return &o, nil
}

func (s *GormStorage) ListOccupants(ctx context.Context, buildingID string, includeArchived bool) ([]Occupant, error) {
	var occupants []Occupant
	q := s.db.WithContext(ctx).Where("building_id = ?", buildingID)
	if !includeArchived {
		q = q.Where("is_deleted = ?", false)
	}
	result := q.Order("created_at, id").Find(&occupants)
	return occupants, result.Error
}

func (s *GormStorage) UpdateOccupant(ctx context.Context, o Occupant) error {
	return s.update(ctx, &o, o.ID)
}

func (s *GormStorage) ArchiveOccupant(ctx context.Context, id string) error {
	return s.setArchived(ctx, &Occupant{}, id, true)
}

func (s *GormStorage) RestoreOccupant(ctx context.Context, id string) error {
	return s.setArchived(ctx, &Occupant{}, id, false)
}

func (s *GormStorage) DeleteOccupant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("occupant_id = ?", id).Delete(&MeasuringDevice{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&Occupant{}, "id = ?", id))
	})
}

// Measuring devices

func (s *GormStorage) CreateMeasuringDevice(ctx context.Context, d MeasuringDevice) error {
	return s.db.WithContext(ctx).Create(&d).Error
}

func (s *GormStorage) GetMeasuringDevice(ctx context.Context, id string) (*MeasuringDevice, error) {
	var d MeasuringDevice
	ok, err := s.first(ctx, &d, id)
	if !ok {
		return nil, err
	}
	return &d, nil
}

func (s *GormStorage) ListMeasuringDevices(ctx context.Context, occupantID string) ([]MeasuringDevice, error) {
	var devices []MeasuringDevice
	result := s.db.WithContext(ctx).Where("occupant_id = ?", occupantID).Order("created_at, id").Find(&devices)
	return devices, result.Error
}

func (s *GormStorage) UpdateMeasuringDevice(ctx context.Context, d MeasuringDevice) error {
	return s.update(ctx, &d, d.ID)
}

func (s *GormStorage) DeleteMeasuringDevice(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&MeasuringDevice{}, "id = ?", id))
}

func (s *GormStorage) ListCalculationOccupants(ctx context.Context, buildingID string) ([]CalculationOccupant, error) {
	occupants, err := s.ListOccupants(ctx, buildingID, false)
	if err != nil {
		return nil, err
	}
	if len(occupants) == 0 {
		return nil, nil
	}
	ids := make([]string, len(occupants))
	for i, o := range occupants {
		ids[i] = o.ID
	}

	var devices []MeasuringDevice
	result := s.db.WithContext(ctx).
		Where("occupant_id IN ? AND is_deleted = ?", ids, false).
		Order("created_at, id").
		Find(&devices)
	if result.Error != nil {
		return nil, result.Error
	}
	byOccupant := make(map[string][]MeasuringDevice, len(occupants))
	for _, d := range devices {
		byOccupant[d.OccupantID] = append(byOccupant[d.OccupantID], d)
	}

	out := make([]CalculationOccupant, 0, len(occupants))
	for _, o := range occupants {
		out = append(out, CalculationOccupant{Occupant: o, Devices: byOccupant[o.ID]})
	}
	return out, nil
}

// Billing periods

func (s *GormStorage) SaveBillingPeriod(ctx context.Context, p BillingPeriod, bills []EnergyBill, records []ConsumptionRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create billing period: %w", err)
		}
		if len(bills) > 0 {
			if err := tx.CreateInBatches(&bills, 100).Error; err != nil {
				return fmt.Errorf("create energy bills: %w", err)
			}
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(&records, 100).Error; err != nil {
				return fmt.Errorf("create consumption records: %w", err)
			}
		}
		return nil
	})
}

func (s *GormStorage) GetBillingPeriod(ctx context.Context, id string) (*BillingPeriod, error) {
	var p BillingPeriod
	ok, err := s.first(ctx, &p, id)
	if !ok {
		return nil, err
	}
	return &p, nil
}

func (s *GormStorage) ListBillingPeriods(ctx context.Context, buildingID string, includeArchived bool) ([]BillingPeriod, error) {
	var periods []BillingPeriod
	q := s.db.WithContext(ctx).Where("building_id = ?", buildingID)
	if !includeArchived {
		q = q.Where("is_deleted = ?", false)
	}
	result := q.Order("start_date desc, id").Find(&periods)
	return periods, result.Error
}

func (s *GormStorage) ArchiveBillingPeriod(ctx context.Context, id string) error {
	return s.setArchived(ctx, &BillingPeriod{}, id, true)
}

func (s *GormStorage) RestoreBillingPeriod(ctx context.Context, id string) error {
	return s.setArchived(ctx, &BillingPeriod{}, id, false)
}

func (s *GormStorage) DeleteBillingPeriod(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("billing_period_id = ?", id).Delete(&ConsumptionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("billing_period_id = ?", id).Delete(&EnergyBill{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&BillingPeriod{}, "id = ?", id))
	})
}

func (s *GormStorage) ListEnergyBills(ctx context.Context, billingPeriodID string) ([]EnergyBill, error) {
	var bills []EnergyBill
	result := s.db.WithContext(ctx).Where("billing_period_id = ?", billingPeriodID).Order("seq, id").Find(&bills)
	return bills, result.Error
}

func (s *GormStorage) ListConsumptionRecords(ctx context.Context, measuringDeviceID string) ([]ConsumptionRecord, error) {
	var records []ConsumptionRecord
	result := s.db.WithContext(ctx).Where("measuring_device_id = ?", measuringDeviceID).Order("start_date, id").Find(&records)
	return records, result.Error
}

// Close & Ping

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
