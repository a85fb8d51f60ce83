// Terminal storefront: browse the catalog, manage the locally persisted
// cart, place orders, and (behind the persisted admin flag) manage products
// and order fulfillment.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sokophones/storefront/internal/cart"
	"github.com/sokophones/storefront/internal/checkout"
	"github.com/sokophones/storefront/internal/config"
	"github.com/sokophones/storefront/internal/database"
	"github.com/sokophones/storefront/internal/localstate"
	"github.com/sokophones/storefront/internal/models"
	"github.com/sokophones/storefront/internal/session"
	"github.com/sokophones/storefront/internal/store"
)

type app struct {
	db      *sql.DB
	cart    *cart.Store
	session *session.Session
	in      *bufio.Scanner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	state, err := localstate.New(cfg.Local.StateDir)
	if err != nil {
		log.Fatalf("Open local state: %v", err)
	}

	cartStore, err := cart.New(state)
	if err != nil {
		log.Fatalf("Load cart: %v", err)
	}

	sess, err := session.New(state)
	if err != nil {
		log.Fatalf("Load session: %v", err)
	}

	a := &app{
		db:      db,
		cart:    cartStore,
		session: sess,
		in:      bufio.NewScanner(os.Stdin),
	}
	a.run(context.Background())
}

func (a *app) run(ctx context.Context) {
	for {
		fmt.Println("\n=== Soko Phones ===")
		fmt.Println("1) Browse catalog")
		fmt.Println("2) View cart")
		fmt.Println("3) Checkout")
		fmt.Println("4) Admin")
		fmt.Println("q) Quit")

		switch a.prompt("> ") {
		case "1":
			a.browse(ctx)
		case "2":
			a.viewCart()
		case "3":
			a.checkout(ctx)
		case "4":
			a.admin(ctx)
		case "q":
			return
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return "q"
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) promptInt(label string) (int64, bool) {
	n, err := strconv.ParseInt(a.prompt(label), 10, 64)
	if err != nil {
		fmt.Println("Not a number.")
		return 0, false
	}
	return n, true
}

func (a *app) browse(ctx context.Context) {
	products, err := store.ListActiveProducts(ctx, a.db)
	if err != nil {
		fmt.Printf("Failed to load products: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Println("No products available.")
		return
	}

	for _, p := range products {
		marker := ""
		if p.IsNew {
			marker = " [NEW]"
		}
		fmt.Printf("%4d  %-28s Ksh %-10s %s, %s  (stock: %d)%s\n",
			p.ID, p.Name, p.Price.StringFixed(0), p.Specs.Processor, p.Specs.Storage, p.StockQuantity, marker)
	}

	id, ok := a.promptInt("Product ID to add to cart (0 to go back): ")
	if !ok || id == 0 {
		return
	}

	product, err := store.GetActiveProduct(ctx, a.db, id)
	if err != nil {
		fmt.Printf("Product lookup failed: %v\n", err)
		return
	}

	qty, ok := a.promptInt("Quantity: ")
	if !ok {
		return
	}

	err = a.cart.Add(models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.ImageURL,
	}, int(qty))
	if err != nil {
		fmt.Printf("Failed to update cart: %v\n", err)
		return
	}

	fmt.Printf("Added %s to cart.\n", product.Name)
}

func (a *app) viewCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty.")
		return
	}

	for _, item := range items {
		fmt.Printf("%4d  %-28s x%-3d @ Ksh %s\n", item.ProductID, item.Name, item.Quantity, item.UnitPrice.StringFixed(0))
	}
	fmt.Printf("Total: Ksh %s\n", a.cart.Total().StringFixed(0))

	switch a.prompt("u) update quantity  r) remove item  c) clear  anything else to go back: ") {
	case "u":
		id, ok := a.promptInt("Product ID: ")
		if !ok {
			return
		}
		qty, ok := a.promptInt("New quantity (0 removes): ")
		if !ok {
			return
		}
		if err := a.cart.UpdateQuantity(id, int(qty)); err != nil {
			fmt.Printf("Failed to update cart: %v\n", err)
		}
	case "r":
		id, ok := a.promptInt("Product ID: ")
		if !ok {
			return
		}
		if err := a.cart.Remove(id); err != nil {
			fmt.Printf("Failed to update cart: %v\n", err)
		}
	case "c":
		if err := a.cart.Clear(); err != nil {
			fmt.Printf("Failed to clear cart: %v\n", err)
		}
	}
}

func (a *app) checkout(ctx context.Context) {
	if a.cart.Len() == 0 {
		fmt.Println("Cart is empty.")
		return
	}

	flow := checkout.NewFlow(a.cart, store.Orders{DB: a.db})
	flow.Form.FullName = a.prompt("Full name: ")
	flow.Form.Email = a.prompt("Email (optional): ")
	flow.Form.Phone = a.prompt("Phone: ")
	flow.Form.Address = a.prompt("Shipping address: ")
	if method := a.prompt("Payment method [mpesa]: "); method != "" {
		flow.Form.PaymentMethod = method
	}

	order, err := flow.PlaceOrder(ctx)
	if err != nil {
		fmt.Printf("Failed to place order: %v\n", err)
		return
	}

	fmt.Printf("\nOrder %s confirmed. Total: Ksh %s\n", order.OrderNumber, order.TotalAmount.StringFixed(0))
	for _, item := range order.Items {
		fmt.Printf("  %-28s x%-3d @ Ksh %s\n", item.ProductName, item.Quantity, item.UnitPrice.StringFixed(0))
	}
}

func (a *app) admin(ctx context.Context) {
	if !a.session.IsAdmin() {
		// Placeholder auth, same as the storefront it replaces: a persisted
		// local flag, not real authentication.
		if a.prompt("Admin password: ") != "admin" {
			fmt.Println("Wrong password.")
			return
		}
		if err := a.session.SetAdmin(true); err != nil {
			fmt.Printf("Failed to save session: %v\n", err)
			return
		}
	}

	for {
		fmt.Println("\n--- Admin ---")
		fmt.Println("1) List orders")
		fmt.Println("2) Update order status")
		fmt.Println("3) Stats")
		fmt.Println("4) Log out")
		fmt.Println("b) Back")

		switch a.prompt("> ") {
		case "1":
			a.adminListOrders(ctx)
		case "2":
			a.adminUpdateStatus(ctx)
		case "3":
			a.adminStats(ctx)
		case "4":
			if err := a.session.SetAdmin(false); err != nil {
				fmt.Printf("Failed to save session: %v\n", err)
			}
			return
		case "b", "q":
			return
		}
	}
}

func (a *app) adminListOrders(ctx context.Context) {
	page, err := store.ListOrders(ctx, a.db, 1, 20)
	if err != nil {
		fmt.Printf("Failed to list orders: %v\n", err)
		return
	}

	orders, ok := page.Items.([]models.Order)
	if !ok || len(orders) == 0 {
		fmt.Println("No orders.")
		return
	}

	for _, o := range orders {
		fmt.Printf("%4d  %-42s %-10s Ksh %-10s %s\n",
			o.ID, o.OrderNumber, o.Status, o.TotalAmount.StringFixed(0), o.CustomerName)
	}
}

func (a *app) adminUpdateStatus(ctx context.Context) {
	id, ok := a.promptInt("Order ID: ")
	if !ok {
		return
	}

	status := a.prompt("New status (pending/confirmed/processing/shipped/delivered/cancelled): ")
	prev, err := store.UpdateOrderStatus(ctx, a.db, id, status)
	if err != nil {
		fmt.Printf("Failed to update status: %v\n", err)
		return
	}

	fmt.Printf("Order %d: %s -> %s\n", id, prev, status)
}

func (a *app) adminStats(ctx context.Context) {
	stats, err := store.GetStoreStats(ctx, a.db)
	if err != nil {
		fmt.Printf("Failed to load stats: %v\n", err)
		return
	}

	fmt.Printf("Products: %d  Orders: %d  Pending: %d  Revenue (delivered): Ksh %s\n",
		stats.TotalProducts, stats.TotalOrders, stats.PendingOrders, stats.TotalRevenue.StringFixed(0))
}
