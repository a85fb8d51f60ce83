package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// StoreStats backs the admin dashboard header. Revenue counts delivered
// orders only.
type StoreStats struct {
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

func GetStoreStats(ctx context.Context, db *sql.DB) (*StoreStats, error) {
	stats := &StoreStats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'delivered')`

	err := db.QueryRowContext(ctx, query).Scan(
		&stats.TotalProducts,
		&stats.TotalOrders,
		&stats.PendingOrders,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("get store stats: %w", err)
	}

	return stats, nil
}
