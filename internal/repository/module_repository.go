package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const (
	customModulePrefix   = "modules:custom:"
	moduleOverridePrefix = "modules:override:"
)

// ModuleRepository stores custom modules and built-in overrides as whole records.
type ModuleRepository struct {
	records recordStore
}

// NewModuleRepository constructs a module repository.
func NewModuleRepository(store kv.Store) *ModuleRepository {
	return &ModuleRepository{records: recordStore{store: store}}
}

// ListCustom returns custom modules ordered by id.
func (r *ModuleRepository) ListCustom(ctx context.Context) ([]models.ModuleDefinition, error) {
	keys, err := r.records.list(ctx, customModulePrefix)
	if err != nil {
		return nil, err
	}
	modules := make([]models.ModuleDefinition, 0, len(keys))
	for _, key := range keys {
		var module models.ModuleDefinition
		if err := r.records.get(ctx, key, &module); err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// FindCustom returns a custom module or kv.ErrNotFound.
func (r *ModuleRepository) FindCustom(ctx context.Context, id string) (*models.ModuleDefinition, error) {
	var module models.ModuleDefinition
	if err := r.records.get(ctx, customModulePrefix+id, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

// SaveCustom replaces the custom module record.
func (r *ModuleRepository) SaveCustom(ctx context.Context, module *models.ModuleDefinition) error {
	return r.records.put(ctx, customModulePrefix+module.ID, module, 0)
}

// DeleteCustom removes a custom module.
func (r *ModuleRepository) DeleteCustom(ctx context.Context, id string) error {
	return r.records.delete(ctx, customModulePrefix+id)
}

// ListOverrides returns every stored override keyed by built-in id.
func (r *ModuleRepository) ListOverrides(ctx context.Context) (map[string]models.ModuleOverride, error) {
	keys, err := r.records.list(ctx, moduleOverridePrefix)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]models.ModuleOverride, len(keys))
	for _, key := range keys {
		var override models.ModuleOverride
		if err := r.records.get(ctx, key, &override); err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}
		overrides[strings.TrimPrefix(key, moduleOverridePrefix)] = override
	}
	return overrides, nil
}

// FindOverride returns the override for a built-in id or kv.ErrNotFound.
func (r *ModuleRepository) FindOverride(ctx context.Context, id string) (*models.ModuleOverride, error) {
	var override models.ModuleOverride
	if err := r.records.get(ctx, moduleOverridePrefix+id, &override); err != nil {
		return nil, err
	}
	return &override, nil
}

// SaveOverride replaces the override for a built-in id.
func (r *ModuleRepository) SaveOverride(ctx context.Context, id string, override *models.ModuleOverride) error {
	return r.records.put(ctx, moduleOverridePrefix+id, override, 0)
}

// DeleteOverride reverts a built-in to its compiled definition.
func (r *ModuleRepository) DeleteOverride(ctx context.Context, id string) error {
	return r.records.delete(ctx, moduleOverridePrefix+id)
}
