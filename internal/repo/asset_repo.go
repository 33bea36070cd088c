// Package repo translates asset domain intents into single-statement
// database operations. Every mutation is atomic at the store level; the
// HTTP handlers and the checkout consumer share no other coordination.
package repo

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pissaia92/assetforge-plataform/internal/db"
)

var (
	// ErrAssetNotFound is returned when no asset exists with the given id.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrDuplicateSerial is returned when a serial number is already registered.
	ErrDuplicateSerial = errors.New("serial number already registered")
)

// AssetSpec carries the client-settable fields of an asset. Assignee is
// deliberately absent: only checkout processing may set it.
type AssetSpec struct {
	Name         string
	AssetType    db.AssetType
	Model        string
	SerialNumber string
	Status       db.AssetStatus
}

// AssetRepository handles asset persistence operations.
type AssetRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(database *db.DB, log *zap.Logger) *AssetRepository {
	return &AssetRepository{
		db:  database,
		log: log,
	}
}

// Create inserts a new asset. CreatedAt is set at insert; UpdatedAt stays
// NULL until the first subsequent mutation.
func (r *AssetRepository) Create(ctx context.Context, spec AssetSpec) (*db.Asset, error) {
	status := spec.Status
	if status == "" {
		status = db.StatusInStock
	}

	// Fast-path duplicate check; the unique index closes the race.
	var existing db.Asset
	err := r.db.WithContext(ctx).Where("serial_number = ?", spec.SerialNumber).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateSerial
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Error("failed to check serial number", zap.String("serial_number", spec.SerialNumber), zap.Error(err))
		return nil, err
	}

	asset := &db.Asset{
		Name:         spec.Name,
		AssetType:    spec.AssetType,
		Model:        spec.Model,
		SerialNumber: spec.SerialNumber,
		Status:       status,
	}

	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSerial
		}
		r.log.Error("failed to create asset", zap.String("serial_number", spec.SerialNumber), zap.Error(err))
		return nil, err
	}

	r.log.Info("asset created", zap.Int64("asset_id", asset.ID), zap.String("serial_number", asset.SerialNumber))
	return asset, nil
}

// Get retrieves an asset by id.
func (r *AssetRepository) Get(ctx context.Context, id int64) (*db.Asset, error) {
	var asset db.Asset
	err := r.db.WithContext(ctx).First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		r.log.Error("failed to get asset", zap.Int64("asset_id", id), zap.Error(err))
		return nil, err
	}

	return &asset, nil
}

// List returns assets in insertion order, paginated by skip/limit.
func (r *AssetRepository) List(ctx context.Context, skip, limit int) ([]*db.Asset, error) {
	var assets []*db.Asset
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		r.log.Error("failed to list assets", zap.Error(err))
		return nil, err
	}

	return assets, nil
}

// Update performs a full replace of the client-settable fields and
// refreshes UpdatedAt. The assignee is left untouched.
func (r *AssetRepository) Update(ctx context.Context, id int64, spec AssetSpec) (*db.Asset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"name":          spec.Name,
		"asset_type":    spec.AssetType,
		"model":         spec.Model,
		"serial_number": spec.SerialNumber,
		"status":        spec.Status,
		"updated_at":    now,
	}

	if err := r.db.WithContext(ctx).Model(&db.Asset{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSerial
		}
		r.log.Error("failed to update asset", zap.Int64("asset_id", id), zap.Error(err))
		return nil, err
	}

	asset.Name = spec.Name
	asset.AssetType = spec.AssetType
	asset.Model = spec.Model
	asset.SerialNumber = spec.SerialNumber
	asset.Status = spec.Status
	asset.UpdatedAt = &now

	r.log.Info("asset updated", zap.Int64("asset_id", id))
	return asset, nil
}

// Delete removes an asset and returns its last state.
func (r *AssetRepository) Delete(ctx context.Context, id int64) (*db.Asset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(&db.Asset{}, id).Error; err != nil {
		r.log.Error("failed to delete asset", zap.Int64("asset_id", id), zap.Error(err))
		return nil, err
	}

	r.log.Info("asset deleted", zap.Int64("asset_id", id))
	return asset, nil
}

// UpdateStatusAndAssignee is the partial update used by the checkout
// consumer path. Applying the same status/assignee twice is idempotent.
func (r *AssetRepository) UpdateStatusAndAssignee(ctx context.Context, id int64, status db.AssetStatus, assignee string) (*db.Asset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     status,
		"assignee":   assignee,
		"updated_at": now,
	}

	if err := r.db.WithContext(ctx).Model(&db.Asset{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		r.log.Error("failed to update asset status", zap.Int64("asset_id", id), zap.Error(err))
		return nil, err
	}

	asset.Status = status
	asset.Assignee = &assignee
	asset.UpdatedAt = &now

	return asset, nil
}

// CountByStatus returns the number of assets per status, used to refresh
// the inventory gauge.
func (r *AssetRepository) CountByStatus(ctx context.Context) (map[db.AssetStatus]int64, error) {
	var rows []struct {
		Status db.AssetStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Asset{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to count assets by status", zap.Error(err))
		return nil, err
	}

	counts := make(map[db.AssetStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
