package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokophones/storefront/internal/database"
	"github.com/sokophones/storefront/internal/models"
)

type CreateOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	Items           []OrderItemRequest
}

// OrderItemRequest carries only the product identity and quantity. Prices,
// names, and images are resolved server-side against the live catalog, so a
// stale client can never submit an outdated price.
type OrderItemRequest struct {
	ProductID int64
	Quantity  int
}

func generateOrderNumber() string {
	return "ORD-" + uuid.NewString()
}

// Orders adapts the package-level order functions to an injectable value for
// callers that take an interface, such as the checkout flow.
type Orders struct {
	DB *sql.DB
}

func (o Orders) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	return CreateOrder(ctx, o.DB, req)
}

// CreateOrder places an order in a single transaction: resolve every cart
// line against the active catalog, snapshot current prices into the line
// items, insert the header and items together. Any failure rolls the whole
// thing back, so a header can never outlive its items.
func CreateOrder(ctx context.Context, db *sql.DB, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, database.ErrEmptyOrder
	}

	var orderID int64

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		type resolvedLine struct {
			productID int64
			name      string
			image     string
			unitPrice decimal.Decimal
			quantity  int
		}

		var totalAmount decimal.Decimal
		lines := make([]resolvedLine, 0, len(req.Items))

		for _, item := range req.Items {
			var line resolvedLine

			err := tx.QueryRowContext(ctx,
				`SELECT id, name, image_url, price
				 FROM products
				 WHERE id = $1 AND is_active`,
				item.ProductID).Scan(&line.productID, &line.name, &line.image, &line.unitPrice)
			if err != nil {
				if err == sql.ErrNoRows {
					return database.ErrProductNotFound
				}
				return fmt.Errorf("resolve product %d: %w", item.ProductID, err)
			}

			line.quantity = item.Quantity
			lines = append(lines, line)
			totalAmount = totalAmount.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (order_number, customer_name, customer_email, customer_phone,
			                     shipping_address, payment_method, payment_status, status,
			                     total_amount, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), 1)
			 RETURNING id`,
			generateOrderNumber(), req.CustomerName, req.CustomerEmail, req.CustomerPhone,
			req.ShippingAddress, req.PaymentMethod, models.PaymentStatusPending,
			models.OrderStatusPending, totalAmount).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range lines {
			subtotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))

			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, product_image,
				                          quantity, unit_price, subtotal, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
				orderID, line.productID, line.name, line.image,
				line.quantity, line.unitPrice, subtotal)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return GetOrder(ctx, db, orderID)
}

func scanOrderRow(row rowScanner, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	shipping_address, payment_method, payment_status, status, total_amount,
	created_at, updated_at, version`

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	err := scanOrderRow(db.QueryRowContext(ctx, query, id), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := getOrderItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func getOrderItems(ctx context.Context, db *sql.DB, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, product_image, quantity, unit_price, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// ListOrders is the admin order feed: headers only, newest first.
func ListOrders(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := scanOrderRow(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage{
		Items:      orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListOrdersCursor pages through all orders with a keyset cursor, for feeds
// that outgrow offset pagination.
func ListOrdersCursor(ctx context.Context, db *sql.DB, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := db.QueryContext(ctx, query, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := scanOrderRow(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// UpdateOrderStatus persists the new status and, on the first transition into
// a fulfilled state (shipped or delivered), decrements stock for each line
// item. An order bouncing between shipped and delivered decrements only once.
// Returns the status the order held before the update.
//
// Stock writes happen after the status commit and are independent per item: a
// failed write is logged and skipped, never retried or rolled back, so a
// partial adjustment is possible.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, orderID int64, newStatus string) (string, error) {
	if !models.ValidOrderStatus(newStatus) {
		return "", database.ErrInvalidOrderStatus
	}

	var prevStatus string

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM orders WHERE id = $1 FOR UPDATE`,
			orderID).Scan(&prevStatus)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = NOW(), version = version + 1
			 WHERE id = $2`,
			newStatus, orderID)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	if models.Fulfilled(newStatus) && !models.Fulfilled(prevStatus) {
		items, err := getOrderItems(ctx, db, orderID)
		if err != nil {
			return prevStatus, fmt.Errorf("load items for stock adjustment: %w", err)
		}

		for _, item := range items {
			if err := DecrementStockFloored(ctx, db, item.ProductID, item.Quantity); err != nil {
				log.Printf("Stock adjustment for order %d, product %d failed: %v", orderID, item.ProductID, err)
			}
		}
	}

	return prevStatus, nil
}
