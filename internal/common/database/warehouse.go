// internal/common/database/warehouse.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"nlq-gateway/internal/common/config"

	_ "github.com/lib/pq"
)

// WarehouseClient executes read-only analytics statements. Each call opens
// a fresh connection and closes it before returning, matching the warehouse
// billing model where idle sessions are charged.
type WarehouseClient struct {
	cfg config.WarehouseConfig

	// openDB is swapped in tests to hand back a sqlmock handle.
	openDB func() (*sql.DB, error)
}

// NewWarehouse creates a new warehouse client.
func NewWarehouse(cfg config.WarehouseConfig) *WarehouseClient {
	return &WarehouseClient{
		cfg: cfg,
		openDB: func() (*sql.DB, error) {
			return sql.Open("postgres", cfg.GetDSN())
		},
	}
}

// NewWarehouseWithDB creates a client whose connections come from the given
// opener. Used by tests.
func NewWarehouseWithDB(cfg config.WarehouseConfig, open func() (*sql.DB, error)) *WarehouseClient {
	return &WarehouseClient{cfg: cfg, openDB: open}
}

// Ping opens a short-lived connection to verify the warehouse is reachable.
func (c *WarehouseClient) Ping(ctx context.Context) error {
	db, err := c.openDB()
	if err != nil {
		return fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.ConnectTimeout))
	defer cancel()
	return db.PingContext(ctx)
}

// Execute runs a single statement and materializes all rows. Column arity is
// dynamic since generated SQL selects anything from one aggregate to a full
// projection.
func (c *WarehouseClient) Execute(ctx context.Context, query string) ([][]interface{}, error) {
	db, err := c.openDB()
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.QueryTimeout))
	defer cancel()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("warehouse query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var out [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("warehouse row iteration failed: %w", err)
	}

	return out, nil
}
