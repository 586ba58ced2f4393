package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// simple single-process deployments.
type MemoryStorage struct {
	mu        sync.RWMutex
	buildings map[string]Building
	occupants map[string]Occupant
	devices   map[string]MeasuringDevice
	periods   map[string]BillingPeriod
	bills     map[string][]EnergyBill        // by billing period
	records   map[string][]ConsumptionRecord // by billing period
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		buildings: make(map[string]Building),
		occupants: make(map[string]Occupant),
		devices:   make(map[string]MeasuringDevice),
		periods:   make(map[string]BillingPeriod),
		bills:     make(map[string][]EnergyBill),
		records:   make(map[string][]ConsumptionRecord),
	}
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func byCreation[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}

func archivedAt(archived bool) *time.Time {
	if !archived {
		return nil
	}
	now := time.Now()
	return &now
}

// Buildings

func (m *MemoryStorage) CreateBuilding(ctx context.Context, b Building) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buildings[b.ID]; ok {
		return fmt.Errorf("building %s already exists", b.ID)
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	m.buildings[b.ID] = b
	return nil
}

func (m *MemoryStorage) GetBuilding(ctx context.Context, id string) (*Building, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buildings[id]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (m *MemoryStorage) ListBuildings(ctx context.Context) ([]Building, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Building, 0, len(m.buildings))
	for _, b := range m.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStorage) UpdateBuilding(ctx context.Context, b Building) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.buildings[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = prev.CreatedAt
	b.UpdatedAt = time.Now()
	m.buildings[b.ID] = b
	return nil
}

func (m *MemoryStorage) DeleteBuilding(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buildings[id]; !ok {
		return ErrNotFound
	}
	for oid, o := range m.occupants {
		if o.BuildingID != id {
			continue
		}
		for did, d := range m.devices {
			if d.OccupantID == oid {
				m.deleteDeviceRecordsLocked(did)
				delete(m.devices, did)
			}
		}
		m.deleteOccupantBillsLocked(oid)
		delete(m.occupants, oid)
	}
	for pid, p := range m.periods {
		if p.BuildingID == id {
			delete(m.bills, pid)
			delete(m.records, pid)
			delete(m.periods, pid)
		}
	}
	delete(m.buildings, id)
	return nil
}

func (m *MemoryStorage) deleteDeviceRecordsLocked(deviceID string) {
	for pid, recs := range m.records {
		kept := recs[:0:0]
		for _, r := range recs {
			if r.MeasuringDeviceID != deviceID {
				kept = append(kept, r)
			}
		}
		m.records[pid] = kept
	}
}

func (m *MemoryStorage) deleteOccupantBillsLocked(occupantID string) {
	for pid, bills := range m.bills {
		kept := bills[:0:0]
		for _, b := range bills {
			if b.OccupantID != occupantID {
				kept = append(kept, b)
			}
		}
		m.bills[pid] = kept
	}
}

// Occupants

func (m *MemoryStorage) CreateOccupant(ctx context.Context, o Occupant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.occupants[o.ID]; ok {
		return fmt.Errorf("occupant %s already exists", o.ID)
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	m.occupants[o.ID] = o
	return nil
}

func (m *MemoryStorage) GetOccupant(ctx context.Context, id string) (*Occupant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.occupants[id]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (m *MemoryStorage) ListOccupants(ctx context.Context, buildingID string, includeArchived bool) ([]Occupant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listOccupantsLocked(buildingID, includeArchived), nil
}

func (m *MemoryStorage) listOccupantsLocked(buildingID string, includeArchived bool) []Occupant {
	out := make([]Occupant, 0)
	for _, o := range m.occupants {
		if o.BuildingID != buildingID || (o.IsDeleted && !includeArchived) {
			continue
		}
		out = append(out, o)
	}
	byCreation(out, func(o Occupant) time.Time { return o.CreatedAt }, func(o Occupant) string { return o.ID })
	return out
}

func (m *MemoryStorage) UpdateOccupant(ctx context.Context, o Occupant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.occupants[o.ID]
	if !ok {
		return ErrNotFound
	}
	o.CreatedAt = prev.CreatedAt
	o.UpdatedAt = time.Now()
	m.occupants[o.ID] = o
	return nil
}

func (m *MemoryStorage) ArchiveOccupant(ctx context.Context, id string) error {
	return m.setOccupantArchived(id, true)
}

func (m *MemoryStorage) RestoreOccupant(ctx context.Context, id string) error {
	return m.setOccupantArchived(id, false)
}

func (m *MemoryStorage) setOccupantArchived(id string, archived bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.occupants[id]
	if !ok {
		return ErrNotFound
	}
	o.IsDeleted = archived
	o.DeletedAt = archivedAt(archived)
	o.UpdatedAt = time.Now()
	m.occupants[id] = o
	return nil
}

func (m *MemoryStorage) DeleteOccupant(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.occupants[id]; !ok {
		return ErrNotFound
	}
	for did, d := range m.devices {
		if d.OccupantID == id {
			delete(m.devices, did)
		}
	}
	delete(m.occupants, id)
	return nil
}

// Measuring devices

func (m *MemoryStorage) CreateMeasuringDevice(ctx context.Context, d MeasuringDevice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[d.ID]; ok {
		return fmt.Errorf("measuring device %s already exists", d.ID)
	}
	stamp(&d.CreatedAt, &d.UpdatedAt)
	m.devices[d.ID] = d
	return nil
}

func (m *MemoryStorage) GetMeasuringDevice(ctx context.Context, id string) (*MeasuringDevice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	if !ok {
		return nil, nil
	}
	cp := d
	return &cp, nil
}

func (m *MemoryStorage) ListMeasuringDevices(ctx context.Context, occupantID string) ([]MeasuringDevice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listDevicesLocked(occupantID, true), nil
}

func (m *MemoryStorage) listDevicesLocked(occupantID string, includeArchived bool) []MeasuringDevice {
	out := make([]MeasuringDevice, 0)
	for _, d := range m.devices {
		if d.OccupantID != occupantID || (d.IsDeleted && !includeArchived) {
			continue
		}
		out = append(out, d)
	}
	byCreation(out, func(d MeasuringDevice) time.Time { return d.CreatedAt }, func(d MeasuringDevice) string { return d.ID })
	return out
}

func (m *MemoryStorage) UpdateMeasuringDevice(ctx context.Context, d MeasuringDevice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.devices[d.ID]
	if !ok {
		return ErrNotFound
	}
	d.CreatedAt = prev.CreatedAt
	d.UpdatedAt = time.Now()
	m.devices[d.ID] = d
	return nil
}

func (m *MemoryStorage) DeleteMeasuringDevice(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[id]; !ok {
		return ErrNotFound
	}
	delete(m.devices, id)
	return nil
}

func (m *MemoryStorage) ListCalculationOccupants(ctx context.Context, buildingID string) ([]CalculationOccupant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	occupants := m.listOccupantsLocked(buildingID, false)
	if len(occupants) == 0 {
		return nil, nil
	}
	out := make([]CalculationOccupant, 0, len(occupants))
	for _, o := range occupants {
		devices := m.listDevicesLocked(o.ID, false)
		if len(devices) == 0 {
			devices = nil
		}
		out = append(out, CalculationOccupant{Occupant: o, Devices: devices})
	}
	return out, nil
}

// Billing periods

func (m *MemoryStorage) SaveBillingPeriod(ctx context.Context, p BillingPeriod, bills []EnergyBill, records []ConsumptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.periods[p.ID]; ok {
		return fmt.Errorf("create billing period: %s already exists", p.ID)
	}
	if err := uniqueIDs(bills, func(b EnergyBill) string { return b.ID }); err != nil {
		return fmt.Errorf("create energy bills: %w", err)
	}
	if err := uniqueIDs(records, func(r ConsumptionRecord) string { return r.ID }); err != nil {
		return fmt.Errorf("create consumption records: %w", err)
	}

	now := time.Now()
	stamp(&p.CreatedAt, &p.UpdatedAt)
	m.periods[p.ID] = p
	if len(bills) > 0 {
		stored := make([]EnergyBill, len(bills))
		for i, b := range bills {
			if b.CreatedAt.IsZero() {
				b.CreatedAt = now
			}
			stored[i] = b
		}
		sort.SliceStable(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })
		m.bills[p.ID] = stored
	}
	if len(records) > 0 {
		stored := make([]ConsumptionRecord, len(records))
		for i, r := range records {
			if r.CreatedAt.IsZero() {
				r.CreatedAt = now
			}
			stored[i] = r
		}
		m.records[p.ID] = stored
	}
	return nil
}

func uniqueIDs[T any](items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := id(item)
		if _, ok := seen[k]; ok {
			return fmt.Errorf("duplicate id %q", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (m *MemoryStorage) GetBillingPeriod(ctx context.Context, id string) (*BillingPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.periods[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStorage) ListBillingPeriods(ctx context.Context, buildingID string, includeArchived bool) ([]BillingPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BillingPeriod, 0)
	for _, p := range m.periods {
		if p.BuildingID != buildingID || (p.IsDeleted && !includeArchived) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStorage) ArchiveBillingPeriod(ctx context.Context, id string) error {
	return m.setPeriodArchived(id, true)
}

func (m *MemoryStorage) RestoreBillingPeriod(ctx context.Context, id string) error {
	return m.setPeriodArchived(id, false)
}

func (m *MemoryStorage) setPeriodArchived(id string, archived bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok {
		return ErrNotFound
	}
	p.IsDeleted = archived
	p.DeletedAt = archivedAt(archived)
	p.UpdatedAt = time.Now()
	m.periods[id] = p
	return nil
}

func (m *MemoryStorage) DeleteBillingPeriod(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.periods[id]; !ok {
		return ErrNotFound
	}
	delete(m.bills, id)
	delete(m.records, id)
	delete(m.periods, id)
	return nil
}

func (m *MemoryStorage) ListEnergyBills(ctx context.Context, billingPeriodID string) ([]EnergyBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bills := m.bills[billingPeriodID]
	out := make([]EnergyBill, len(bills))
	copy(out, bills)
	return out, nil
}

func (m *MemoryStorage) ListConsumptionRecords(ctx context.Context, measuringDeviceID string) ([]ConsumptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ConsumptionRecord, 0)
	for _, recs := range m.records {
		for _, r := range recs {
			if r.MeasuringDeviceID == measuringDeviceID {
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
