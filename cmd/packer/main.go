// Command packer is the menu-driven operator CLI for packing orders.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/promodeagro/packer-cli/auth"
	"github.com/promodeagro/packer-cli/notify"
	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/packing"
	"github.com/promodeagro/packer-cli/profile"
	"github.com/promodeagro/packer-cli/store"
)

type app struct {
	in      *bufio.Reader
	auth    *auth.Service
	profile *profile.Service
	notify  *notify.Service
	orders  *order.Repository
	engine  *packing.Engine
	user    auth.User
}

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	region := envOr("AWS_REGION", "ap-south-1")
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error("load aws config", "error", err)
		os.Exit(1)
	}

	cfg := configFromEnv()
	adapter := store.New(dynamodb.NewFromConfig(awscfg), cfg)
	repo := order.NewRepository(adapter, cfg)
	ledger := packing.NewLedger(repo)

	a := &app{
		in:      bufio.NewReader(os.Stdin),
		auth:    auth.NewService(adapter, cfg),
		profile: profile.NewService(adapter, cfg),
		notify:  notify.NewService(adapter, cfg),
		orders:  repo,
		engine:  packing.NewEngine(repo, ledger, logger),
	}

	if !a.loginGate(ctx) {
		return
	}
	a.mainMenu(ctx)
}

func configFromEnv() store.Config {
	cfg := store.DefaultConfig()
	if v := os.Getenv("PACKER_ORDERS_TABLE"); v != "" {
		cfg.OrdersTable = v
	}
	if v := os.Getenv("PACKER_PACKERS_TABLE"); v != "" {
		cfg.PackersTable = v
	}
	if v := os.Getenv("PACKER_USERS_TABLE"); v != "" {
		cfg.UsersTable = v
	}
	if v := os.Getenv("PACKER_NOTIFICATIONS_TABLE"); v != "" {
		cfg.NotificationsTable = v
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// --- prompts ---

func (a *app) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) promptRequired(label string) string {
	for {
		if v := a.prompt(label + " (required)"); v != "" {
			return v
		}
	}
}

func (a *app) promptInt(label string, def int) int {
	v := a.prompt(fmt.Sprintf("%s [%d]", label, def))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (a *app) confirm(label string) bool {
	v := strings.ToLower(a.prompt(label + " [y/N]"))
	return v == "y" || v == "yes"
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(b))
}

func printRecord(rec store.Record) {
	printJSON(store.DecodeJSON(rec))
}

// --- menus ---

func (a *app) loginGate(ctx context.Context) bool {
	fmt.Println("Welcome to Promodeagro Packer CLI")
	for {
		fmt.Println("\n1) Login\n2) Exit")
		switch a.prompt("Select") {
		case "1":
			email := a.prompt("Email")
			password := a.prompt("Password")
			user, err := a.auth.Login(ctx, email, password)
			if err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			a.user = user
			fmt.Println("Logged in as:", user.DisplayName())
			return true
		case "2", "0", "":
			return false
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) mainMenu(ctx context.Context) {
	for {
		unpacked, packed := a.counts(ctx)
		fmt.Printf("\nMain Menu (Unpacked: %d | Packed: %d)\n", unpacked, packed)
		fmt.Println("1) Orders\n2) Profile\n3) Notifications\n0) Logout")
		switch a.prompt("Select") {
		case "1":
			a.ordersMenu(ctx)
		case "2":
			a.profileMenu(ctx)
		case "3":
			a.notificationsMenu(ctx)
		case "0":
			fmt.Println("Logged out")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

// counts runs the O(n) status traversals; errors degrade to zero so the
// menu still renders when the store is down.
func (a *app) counts(ctx context.Context) (int, int) {
	unpacked, err := a.orders.CountByStatus(ctx, order.StatusUnpacked)
	if err != nil {
		unpacked = 0
	}
	packed, err := a.orders.CountByStatus(ctx, order.StatusPacked)
	if err != nil {
		packed = 0
	}
	return unpacked, packed
}

func (a *app) ordersMenu(ctx context.Context) {
	for {
		fmt.Println("\nOrders")
		fmt.Println("1) Browse unpacked (paged)")
		fmt.Println("2) Browse packed (paged)")
		fmt.Println("3) Get by order_id")
		fmt.Println("4) Complete order")
		fmt.Println("5) View completed details")
		fmt.Println("6) Complete ALL unpacked (bulk)")
		fmt.Println("7) Start packing (per item)")
		fmt.Println("8) Show packing summary")
		fmt.Println("0) Back")
		switch a.prompt("Select") {
		case "1":
			a.browse(ctx, order.StatusUnpacked)
		case "2":
			a.browse(ctx, order.StatusPacked)
		case "3":
			a.showOrder(ctx, a.prompt("order_id"))
		case "4":
			a.completeOrder(ctx, a.prompt("order_id"))
		case "5":
			a.viewCompleted(ctx)
		case "6":
			a.completeAll(ctx)
		case "7":
			a.packPerItem(ctx)
		case "8":
			a.showSummary(ctx, a.prompt("order_id"))
		case "0":
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) browse(ctx context.Context, status order.Status) {
	pageSize := a.promptInt("Page size", 20)
	cursor := order.NewCursor(a.orders, status, int32(pageSize))
	page, err := cursor.NextPage(ctx)
	for {
		switch {
		case errors.Is(err, order.ErrEndOfResults):
			fmt.Println("End of results")
		case errors.Is(err, order.ErrFirstPage):
			fmt.Println("Already at first page")
		case err != nil:
			fmt.Println("Error:", err)
			return
		default:
			fmt.Printf("Status: %s | Page %d | Orders: %d\n", status, cursor.PageNumber(), len(page))
			for _, o := range page {
				printRecord(o.Raw)
			}
		}
		switch a.prompt("n) Next  p) Prev  r) Reset  q) Back") {
		case "n":
			page, err = cursor.NextPage(ctx)
		case "p":
			page, err = cursor.PrevPage(ctx)
		case "r":
			cursor.Reset()
			page, err = cursor.NextPage(ctx)
		case "q", "0":
			return
		}
	}
}

func (a *app) showOrder(ctx context.Context, orderID string) {
	o, err := a.orders.GetByID(ctx, orderID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	printRecord(o.Raw)
}

func (a *app) promptEvidence() order.Evidence {
	return order.Evidence{
		PackedBy: a.promptRequired("packed_by (packer_id)"),
		PhotoURL: a.promptRequired("photo_url"),
		VideoURL: a.promptRequired("video_url"),
	}
}

func (a *app) completeOrder(ctx context.Context, orderID string) {
	o, err := a.engine.Complete(ctx, orderID, a.promptEvidence())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Order completed")
	printRecord(o.Raw)
}

func (a *app) viewCompleted(ctx context.Context) {
	o, err := a.orders.GetByID(ctx, a.prompt("order_id"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if o.Status != order.StatusPacked {
		fmt.Println("Order is not packed")
		return
	}
	printRecord(o.Raw)
}

func (a *app) completeAll(ctx context.Context) {
	ev := a.promptEvidence()
	cap := a.promptInt("Max orders", packing.DefaultBulkCap)
	result, err := a.engine.CompleteAllUnpacked(ctx, ev, cap)
	if err != nil && !result.Aborted {
		fmt.Println("Error:", err)
		return
	}
	printJSON(result)
	unpacked, packed := a.counts(ctx)
	fmt.Printf("Counts now: Unpacked %d | Packed %d\n", unpacked, packed)
}

func (a *app) packPerItem(ctx context.Context) {
	orderID := a.prompt("order_id")
	o, err := a.orders.GetByID(ctx, orderID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(o.Items) == 0 {
		fmt.Println("No items on this order")
		return
	}

	fmt.Printf("Packing order %s: %d items\n", orderID, len(o.Items))
	for i, it := range o.Items {
		fmt.Printf("%d) item %s\n", i+1, it.ID)
		printRecord(it.Raw)
		av := order.AvailabilityAvailable
		if a.confirm("Unavailable?") {
			av = order.AvailabilityUnavailable
		}
		if _, err := a.engine.MarkItem(ctx, orderID, it.ID, av); err != nil {
			fmt.Println("Error:", err)
			return
		}
	}

	a.showSummary(ctx, orderID)
	if a.confirm("Proceed to complete order now?") {
		a.completeOrder(ctx, orderID)
	}
}

func (a *app) showSummary(ctx context.Context, orderID string) {
	sum, err := a.engine.Summary(ctx, orderID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Packing summary for", orderID)
	printJSON(sum)
}

func (a *app) profileMenu(ctx context.Context) {
	for {
		fmt.Println("\nProfile\n1) Get packer\n2) Update packer\n0) Back")
		switch a.prompt("Select") {
		case "1":
			p, err := a.profile.Get(ctx, a.prompt("packer_id"))
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printRecord(p.Raw)
		case "2":
			id := a.prompt("packer_id")
			username := a.prompt("username (blank = keep)")
			email := a.prompt("email (blank = keep)")
			p, err := a.profile.Update(ctx, id, username, email)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printRecord(p.Raw)
		case "0":
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) notificationsMenu(ctx context.Context) {
	for {
		fmt.Println("\nNotifications\n1) List all\n2) List by user_id\n0) Back")
		switch a.prompt("Select") {
		case "1":
			a.listNotifications(ctx, "")
		case "2":
			a.listNotifications(ctx, a.prompt("user_id"))
		case "0":
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) listNotifications(ctx context.Context, userID string) {
	items, err := a.notify.List(ctx, userID, 50)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	printJSON(items)
}
