package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements AdminStore using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore and ensures the catalog schema
// exists.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS line_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			category_tag TEXT NOT NULL DEFAULT '',
			industry TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS service_options (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			industry TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS service_option_components (
			id TEXT PRIMARY KEY,
			option_id TEXT NOT NULL REFERENCES service_options(id) ON DELETE CASCADE,
			line_item_id TEXT NOT NULL REFERENCES line_items(id),
			quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
			strategy TEXT NOT NULL,
			coverage_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			coverage_unit TEXT NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS customization_overrides (
			id BIGSERIAL PRIMARY KEY,
			base_option_id TEXT NOT NULL REFERENCES service_options(id),
			org_id BIGINT NOT NULL,
			swapped_components JSONB NOT NULL DEFAULT '{}',
			removed_component_ids JSONB NOT NULL DEFAULT '[]',
			added_components JSONB NOT NULL DEFAULT '[]',
			price_override DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (base_option_id, org_id)
		)`,
		`CREATE TABLE IF NOT EXISTS service_packages (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			industry TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS service_package_items (
			id BIGSERIAL PRIMARY KEY,
			package_id TEXT NOT NULL REFERENCES service_packages(id) ON DELETE CASCADE,
			service_option_id TEXT NOT NULL REFERENCES service_options(id),
			quantity DOUBLE PRECISION NOT NULL DEFAULT 1,
			is_optional BOOLEAN NOT NULL DEFAULT FALSE,
			is_upgrade BOOLEAN NOT NULL DEFAULT FALSE,
			position INT NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// FetchLineItems lists line items matching the filter.
func (s *PostgresStore) FetchLineItems(ctx context.Context, filter LineItemFilter) ([]*LineItem, error) {
	query := `
		SELECT id, name, price, unit, category_tag, industry, created_at, updated_at
		FROM line_items
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filter.Industry != "" {
		query += fmt.Sprintf(" AND industry = $%d", argCount)
		args = append(args, filter.Industry)
		argCount++
	}
	if filter.CategoryTag != "" {
		query += fmt.Sprintf(" AND category_tag = $%d", argCount)
		args = append(args, filter.CategoryTag)
		argCount++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []*LineItem
	for rows.Next() {
		item := &LineItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Unit,
			&item.CategoryTag, &item.Industry, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FetchLineItem retrieves a line item by id.
func (s *PostgresStore) FetchLineItem(ctx context.Context, id string) (*LineItem, error) {
	query := `
		SELECT id, name, price, unit, category_tag, industry, created_at, updated_at
		FROM line_items
		WHERE id = $1
	`
	item := &LineItem{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Unit,
		&item.CategoryTag, &item.Industry, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return item, nil
}

// FetchBaseOption retrieves a service option and its base components.
func (s *PostgresStore) FetchBaseOption(ctx context.Context, id string) (*ServiceOption, error) {
	query := `
		SELECT id, name, unit, industry, created_at, updated_at
		FROM service_options
		WHERE id = $1
	`
	option := &ServiceOption{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&option.ID, &option.Name, &option.Unit, &option.Industry,
		&option.CreatedAt, &option.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service option: %w", err)
	}

	componentQuery := `
		SELECT id, line_item_id, quantity, strategy, coverage_amount, coverage_unit
		FROM service_option_components
		WHERE option_id = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, componentQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list option components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ServiceOptionComponent
		if err := rows.Scan(&c.ID, &c.LineItemID, &c.Quantity, &c.Strategy,
			&c.CoverageAmount, &c.CoverageUnit); err != nil {
			return nil, fmt.Errorf("failed to scan option component: %w", err)
		}
		option.BaseComponents = append(option.BaseComponents, c)
	}
	return option, rows.Err()
}

// FetchPackage retrieves a service package and its items.
func (s *PostgresStore) FetchPackage(ctx context.Context, id string) (*ServicePackage, error) {
	query := `
		SELECT id, name, industry, created_at, updated_at
		FROM service_packages
		WHERE id = $1
	`
	pkg := &ServicePackage{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&pkg.ID, &pkg.Name, &pkg.Industry, &pkg.CreatedAt, &pkg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service package: %w", err)
	}

	itemQuery := `
		SELECT service_option_id, quantity, is_optional, is_upgrade
		FROM service_package_items
		WHERE package_id = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list package items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item ServicePackageItem
		if err := rows.Scan(&item.ServiceOptionID, &item.Quantity, &item.IsOptional, &item.IsUpgrade); err != nil {
			return nil, fmt.Errorf("failed to scan package item: %w", err)
		}
		pkg.Items = append(pkg.Items, item)
	}
	return pkg, rows.Err()
}

// FetchOverride retrieves the override for the pair, or (nil, nil) when none
// exists.
func (s *PostgresStore) FetchOverride(ctx context.Context, optionID string, orgID int64) (*CustomizationOverride, error) {
	query := `
		SELECT base_option_id, org_id, swapped_components, removed_component_ids,
		       added_components, price_override, created_at, updated_at
		FROM customization_overrides
		WHERE base_option_id = $1 AND org_id = $2
	`
	override := &CustomizationOverride{}
	var swappedJSON, removedJSON, addedJSON []byte
	err := s.db.QueryRowContext(ctx, query, optionID, orgID).Scan(
		&override.BaseOptionID, &override.OrgID, &swappedJSON, &removedJSON,
		&addedJSON, &override.PriceOverride, &override.CreatedAt, &override.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	if err := json.Unmarshal(swappedJSON, &override.SwappedComponents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swapped components: %w", err)
	}
	if err := json.Unmarshal(removedJSON, &override.RemovedComponentIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal removed component ids: %w", err)
	}
	if err := json.Unmarshal(addedJSON, &override.AddedComponents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal added components: %w", err)
	}
	return override, nil
}

// InsertOverride persists a new override. A unique constraint violation on
// the (base option, organization) key is reported as ErrDuplicateOverride so
// callers can retry as an update.
func (s *PostgresStore) InsertOverride(ctx context.Context, override *CustomizationOverride) error {
	swappedJSON, removedJSON, addedJSON, err := marshalOverridePatch(override)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customization_overrides
			(base_option_id, org_id, swapped_components, removed_component_ids, added_components, price_override)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query, override.BaseOptionID, override.OrgID,
		swappedJSON, removedJSON, addedJSON, override.PriceOverride).
		Scan(&override.CreatedAt, &override.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateOverride
	}
	if err != nil {
		return fmt.Errorf("failed to insert override: %w", err)
	}
	return nil
}

// UpdateOverride replaces the stored patch for an existing override.
func (s *PostgresStore) UpdateOverride(ctx context.Context, override *CustomizationOverride) error {
	swappedJSON, removedJSON, addedJSON, err := marshalOverridePatch(override)
	if err != nil {
		return err
	}

	query := `
		UPDATE customization_overrides
		SET swapped_components = $1, removed_component_ids = $2, added_components = $3,
		    price_override = $4, updated_at = NOW()
		WHERE base_option_id = $5 AND org_id = $6
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query, swappedJSON, removedJSON, addedJSON,
		override.PriceOverride, override.BaseOptionID, override.OrgID).
		Scan(&override.CreatedAt, &override.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update override: %w", err)
	}
	return nil
}

func marshalOverridePatch(override *CustomizationOverride) (swapped, removed, added []byte, err error) {
	swappedMap := override.SwappedComponents
	if swappedMap == nil {
		swappedMap = map[string]string{}
	}
	swapped, err = json.Marshal(swappedMap)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal swapped components: %w", err)
	}

	removedIDs := override.RemovedComponentIDs
	if removedIDs == nil {
		removedIDs = []string{}
	}
	removed, err = json.Marshal(removedIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal removed component ids: %w", err)
	}

	addedComponents := override.AddedComponents
	if addedComponents == nil {
		addedComponents = []ServiceOptionComponent{}
	}
	added, err = json.Marshal(addedComponents)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal added components: %w", err)
	}
	return swapped, removed, added, nil
}

// CreateLineItem inserts a new catalog line item.
func (s *PostgresStore) CreateLineItem(ctx context.Context, item *LineItem) error {
	query := `
		INSERT INTO line_items (id, name, price, unit, category_tag, industry)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, item.ID, item.Name, item.Price,
		item.Unit, item.CategoryTag, item.Industry).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create line item: %w", err)
	}
	return nil
}

// CreateServiceOption inserts a service option and its components in one
// transaction.
func (s *PostgresStore) CreateServiceOption(ctx context.Context, option *ServiceOption) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO service_options (id, name, unit, industry)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, query, option.ID, option.Name, option.Unit, option.Industry).
		Scan(&option.CreatedAt, &option.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create service option: %w", err)
	}

	componentQuery := `
		INSERT INTO service_option_components
			(id, option_id, line_item_id, quantity, strategy, coverage_amount, coverage_unit, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, c := range option.BaseComponents {
		if _, err := tx.ExecContext(ctx, componentQuery, c.ID, option.ID, c.LineItemID,
			c.Quantity, c.Strategy, c.CoverageAmount, c.CoverageUnit, i); err != nil {
			return fmt.Errorf("failed to create option component %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// CreatePackage inserts a service package and its items in one transaction.
func (s *PostgresStore) CreatePackage(ctx context.Context, pkg *ServicePackage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO service_packages (id, name, industry)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, query, pkg.ID, pkg.Name, pkg.Industry).
		Scan(&pkg.CreatedAt, &pkg.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create service package: %w", err)
	}

	itemQuery := `
		INSERT INTO service_package_items (package_id, service_option_id, quantity, is_optional, is_upgrade, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, item := range pkg.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, pkg.ID, item.ServiceOptionID,
			item.Quantity, item.IsOptional, item.IsUpgrade, i); err != nil {
			return fmt.Errorf("failed to create package item %s: %w", item.ServiceOptionID, err)
		}
	}
	return tx.Commit()
}
