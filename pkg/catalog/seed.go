package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is a declarative catalog bootstrap loaded from YAML. Seeds exist so a
// fresh install (or a dev server on the memory store) can price services
// without a back-office import step.
type Seed struct {
	LineItems      []SeedLineItem      `yaml:"line_items"`
	ServiceOptions []SeedServiceOption `yaml:"service_options"`
	Packages       []SeedPackage       `yaml:"service_packages"`
}

// SeedLineItem mirrors LineItem in seed files.
type SeedLineItem struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Unit        string  `yaml:"unit"`
	CategoryTag string  `yaml:"category_tag"`
	Industry    string  `yaml:"industry"`
}

// SeedServiceOption mirrors ServiceOption in seed files.
type SeedServiceOption struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Unit       string          `yaml:"unit"`
	Industry   string          `yaml:"industry"`
	Components []SeedComponent `yaml:"components"`
}

// SeedComponent mirrors ServiceOptionComponent in seed files.
type SeedComponent struct {
	ID             string  `yaml:"id"`
	LineItemID     string  `yaml:"line_item_id"`
	Quantity       float64 `yaml:"quantity"`
	Strategy       string  `yaml:"strategy"`
	CoverageAmount float64 `yaml:"coverage_amount"`
	CoverageUnit   string  `yaml:"coverage_unit"`
}

// SeedPackage mirrors ServicePackage in seed files.
type SeedPackage struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Industry string            `yaml:"industry"`
	Items    []SeedPackageItem `yaml:"items"`
}

// SeedPackageItem mirrors ServicePackageItem in seed files.
type SeedPackageItem struct {
	ServiceOptionID string  `yaml:"service_option_id"`
	Quantity        float64 `yaml:"quantity"`
	Optional        bool    `yaml:"optional"`
	Upgrade         bool    `yaml:"upgrade"`
}

// LoadSeedFile parses and validates a YAML seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses and validates YAML seed data.
func ParseSeed(data []byte) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate checks internal consistency: unique ids, known strategies, and
// every reference resolving within the seed itself.
func (s *Seed) Validate() error {
	lineItemIDs := make(map[string]bool, len(s.LineItems))
	for _, item := range s.LineItems {
		if item.ID == "" {
			return fmt.Errorf("seed line item %q has no id", item.Name)
		}
		if lineItemIDs[item.ID] {
			return fmt.Errorf("duplicate seed line item id %q", item.ID)
		}
		lineItemIDs[item.ID] = true
	}

	optionIDs := make(map[string]bool, len(s.ServiceOptions))
	for _, option := range s.ServiceOptions {
		if option.ID == "" {
			return fmt.Errorf("seed service option %q has no id", option.Name)
		}
		if optionIDs[option.ID] {
			return fmt.Errorf("duplicate seed service option id %q", option.ID)
		}
		optionIDs[option.ID] = true

		componentIDs := make(map[string]bool, len(option.Components))
		for _, c := range option.Components {
			if !CalculationStrategy(c.Strategy).Valid() {
				return fmt.Errorf("option %q component %q: unknown strategy %q", option.ID, c.ID, c.Strategy)
			}
			if !lineItemIDs[c.LineItemID] {
				return fmt.Errorf("option %q component %q: unknown line item %q", option.ID, c.ID, c.LineItemID)
			}
			if componentIDs[c.ID] {
				return fmt.Errorf("option %q: duplicate component id %q", option.ID, c.ID)
			}
			componentIDs[c.ID] = true
		}
	}

	for _, pkg := range s.Packages {
		if pkg.ID == "" {
			return fmt.Errorf("seed package %q has no id", pkg.Name)
		}
		for _, item := range pkg.Items {
			if !optionIDs[item.ServiceOptionID] {
				return fmt.Errorf("package %q: unknown service option %q", pkg.ID, item.ServiceOptionID)
			}
		}
	}
	return nil
}

// Apply writes the seed into the store. It is not idempotent; apply seeds to
// empty catalogs only.
func (s *Seed) Apply(ctx context.Context, store AdminStore) error {
	for _, item := range s.LineItems {
		record := &LineItem{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Unit:        item.Unit,
			CategoryTag: item.CategoryTag,
			Industry:    item.Industry,
		}
		if err := store.CreateLineItem(ctx, record); err != nil {
			return fmt.Errorf("failed to seed line item %q: %w", item.ID, err)
		}
	}

	for _, option := range s.ServiceOptions {
		record := &ServiceOption{
			ID:       option.ID,
			Name:     option.Name,
			Unit:     option.Unit,
			Industry: option.Industry,
		}
		for _, c := range option.Components {
			record.BaseComponents = append(record.BaseComponents, ServiceOptionComponent{
				ID:             c.ID,
				LineItemID:     c.LineItemID,
				Quantity:       c.Quantity,
				Strategy:       CalculationStrategy(c.Strategy),
				CoverageAmount: c.CoverageAmount,
				CoverageUnit:   c.CoverageUnit,
			})
		}
		if err := store.CreateServiceOption(ctx, record); err != nil {
			return fmt.Errorf("failed to seed service option %q: %w", option.ID, err)
		}
	}

	for _, pkg := range s.Packages {
		record := &ServicePackage{
			ID:       pkg.ID,
			Name:     pkg.Name,
			Industry: pkg.Industry,
		}
		for _, item := range pkg.Items {
			record.Items = append(record.Items, ServicePackageItem{
				ServiceOptionID: item.ServiceOptionID,
				Quantity:        item.Quantity,
				IsOptional:      item.Optional,
				IsUpgrade:       item.Upgrade,
			})
		}
		if err := store.CreatePackage(ctx, record); err != nil {
			return fmt.Errorf("failed to seed package %q: %w", pkg.ID, err)
		}
	}
	return nil
}
