package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory AdminStore used for development servers and
// tests. All reads return copies so callers cannot mutate shared records.
type MemoryStore struct {
	mu        sync.RWMutex
	lineItems map[string]*LineItem
	options   map[string]*ServiceOption
	packages  map[string]*ServicePackage
	overrides map[string]*CustomizationOverride // keyed optionID:orgID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lineItems: make(map[string]*LineItem),
		options:   make(map[string]*ServiceOption),
		packages:  make(map[string]*ServicePackage),
		overrides: make(map[string]*CustomizationOverride),
	}
}

func overrideKey(optionID string, orgID int64) string {
	return fmt.Sprintf("%s:%d", optionID, orgID)
}

// FetchLineItems returns line items matching the filter, ordered by name.
func (s *MemoryStore) FetchLineItems(ctx context.Context, filter LineItemFilter) ([]*LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*LineItem
	for _, item := range s.lineItems {
		if filter.Industry != "" && item.Industry != filter.Industry {
			continue
		}
		if filter.CategoryTag != "" && item.CategoryTag != filter.CategoryTag {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, cloneLineItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return nil, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, nil
}

// FetchLineItem returns a single line item by id.
func (s *MemoryStore) FetchLineItem(ctx context.Context, id string) (*LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.lineItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLineItem(item), nil
}

// FetchBaseOption returns a service option with its base components.
func (s *MemoryStore) FetchBaseOption(ctx context.Context, id string) (*ServiceOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	option, ok := s.options[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOption(option), nil
}

// FetchPackage returns a service package with its items.
func (s *MemoryStore) FetchPackage(ctx context.Context, id string) (*ServicePackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePackage(pkg), nil
}

// FetchOverride returns the override for the pair, or (nil, nil) when absent.
func (s *MemoryStore) FetchOverride(ctx context.Context, optionID string, orgID int64) (*CustomizationOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	override, ok := s.overrides[overrideKey(optionID, orgID)]
	if !ok {
		return nil, nil
	}
	return cloneOverride(override), nil
}

// InsertOverride stores a new override, failing on an existing key.
func (s *MemoryStore) InsertOverride(ctx context.Context, override *CustomizationOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := overrideKey(override.BaseOptionID, override.OrgID)
	if _, exists := s.overrides[key]; exists {
		return ErrDuplicateOverride
	}
	now := time.Now()
	stored := cloneOverride(override)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.overrides[key] = stored
	override.CreatedAt = now
	override.UpdatedAt = now
	return nil
}

// UpdateOverride replaces an existing override, failing when absent.
func (s *MemoryStore) UpdateOverride(ctx context.Context, override *CustomizationOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := overrideKey(override.BaseOptionID, override.OrgID)
	existing, ok := s.overrides[key]
	if !ok {
		return ErrNotFound
	}
	stored := cloneOverride(override)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	s.overrides[key] = stored
	override.CreatedAt = stored.CreatedAt
	override.UpdatedAt = stored.UpdatedAt
	return nil
}

// CreateLineItem adds a line item to the catalog.
func (s *MemoryStore) CreateLineItem(ctx context.Context, item *LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		return fmt.Errorf("line item id is required")
	}
	if _, exists := s.lineItems[item.ID]; exists {
		return fmt.Errorf("line item %q already exists", item.ID)
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.lineItems[item.ID] = cloneLineItem(item)
	return nil
}

// CreateServiceOption adds a base service option to the catalog.
func (s *MemoryStore) CreateServiceOption(ctx context.Context, option *ServiceOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if option.ID == "" {
		return fmt.Errorf("service option id is required")
	}
	if _, exists := s.options[option.ID]; exists {
		return fmt.Errorf("service option %q already exists", option.ID)
	}
	now := time.Now()
	option.CreatedAt = now
	option.UpdatedAt = now
	s.options[option.ID] = cloneOption(option)
	return nil
}

// CreatePackage adds a service package to the catalog.
func (s *MemoryStore) CreatePackage(ctx context.Context, pkg *ServicePackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg.ID == "" {
		return fmt.Errorf("service package id is required")
	}
	if _, exists := s.packages[pkg.ID]; exists {
		return fmt.Errorf("service package %q already exists", pkg.ID)
	}
	now := time.Now()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	s.packages[pkg.ID] = clonePackage(pkg)
	return nil
}

func cloneLineItem(item *LineItem) *LineItem {
	clone := *item
	return &clone
}

func cloneOption(option *ServiceOption) *ServiceOption {
	clone := *option
	clone.BaseComponents = append([]ServiceOptionComponent(nil), option.BaseComponents...)
	return &clone
}

func clonePackage(pkg *ServicePackage) *ServicePackage {
	clone := *pkg
	clone.Items = append([]ServicePackageItem(nil), pkg.Items...)
	return &clone
}

func cloneOverride(override *CustomizationOverride) *CustomizationOverride {
	clone := *override
	if override.SwappedComponents != nil {
		clone.SwappedComponents = make(map[string]string, len(override.SwappedComponents))
		for k, v := range override.SwappedComponents {
			clone.SwappedComponents[k] = v
		}
	}
	clone.RemovedComponentIDs = append([]string(nil), override.RemovedComponentIDs...)
	clone.AddedComponents = append([]ServiceOptionComponent(nil), override.AddedComponents...)
	if override.PriceOverride != nil {
		price := *override.PriceOverride
		clone.PriceOverride = &price
	}
	return &clone
}
