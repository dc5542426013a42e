// cartctl is the shopper-side cart tool. It keeps a durable local cart for
// guest browsing, merges it into the server cart on login, and routes every
// operation to whichever side is authoritative for the current session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"marketplace-cart/internal/checkout"
	"marketplace-cart/internal/config"
	"marketplace-cart/internal/domain"
	"marketplace-cart/internal/kvstore"
	"marketplace-cart/internal/localcart"
	"marketplace-cart/internal/remotecart"
	"marketplace-cart/internal/session"
)

const usage = `Usage: cartctl <command> [flags]

Commands:
  show       print the active cart with subtotal and item count
  add        add a line to the active cart
  update     set a line's quantity (0 removes it)
  remove     delete a line
  clear      empty the active cart
  login      store a credential and merge the guest cart into the server cart
  logout     drop the credential and start over as a guest
  checkout   submit the active cart for payment
`

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type app struct {
	logger  *log.Logger
	session *session.Manager
	client  *remotecart.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := log.New(os.Stderr, "[cartctl] ", log.LstdFlags|log.LUTC)
	ctx := context.Background()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open state store: %v", err)
	}
	defer kv.Close()

	local := localcart.New(kv)

	var sess *session.Manager
	client, err := remotecart.New(remotecart.Config{
		BaseURL: cfg.APIBaseURL,
		Tokens: tokenFunc(func(ctx context.Context) (string, error) {
			return sess.Token(ctx)
		}),
	})
	if err != nil {
		logger.Fatalf("init cart gateway: %v", err)
	}
	sess = session.New(kv, local, client)

	if err := sess.Restore(ctx); err != nil {
		logger.Fatalf("restore session: %v", err)
	}

	a := &app{logger: logger, session: sess, client: client}

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "show":
		runErr = a.show(ctx)
	case "add":
		runErr = a.add(ctx, os.Args[2:])
	case "update":
		runErr = a.update(ctx, os.Args[2:])
	case "remove":
		runErr = a.remove(ctx, os.Args[2:])
	case "clear":
		runErr = a.clear(ctx)
	case "login":
		runErr = a.login(ctx, os.Args[2:])
	case "logout":
		runErr = a.logout(ctx)
	case "checkout":
		runErr = a.checkout(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Fatalf("%s: %v", os.Args[1], runErr)
	}
}

// openStore selects the state backend: redis when configured, otherwise a
// local SQLite file.
func openStore(ctx context.Context, cfg config.Config) (kvstore.Store, error) {
	if cfg.RedisAddr != "" {
		return kvstore.NewRedis(ctx, kvstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "cartctl",
		})
	}
	return kvstore.NewSQLite(cfg.StatePath)
}

func (a *app) show(ctx context.Context) error {
	snap, err := a.session.Snapshot(ctx)
	if err != nil {
		return err
	}
	printSnapshot(snap, a.session.State())
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var line domain.GuestLine
	fs.StringVar(&line.SKUID, "sku-id", "", "SKU id (required)")
	fs.StringVar(&line.SKUCode, "sku", "", "SKU code (required while guest)")
	fs.StringVar(&line.ProductID, "product-id", "", "product id")
	fs.StringVar(&line.ProductName, "name", "", "product name")
	fs.StringVar(&line.VendorName, "vendor", "", "vendor name")
	fs.StringVar(&line.ImageURL, "image", "", "image URL")
	fs.StringVar(&line.UnitPrice, "price", "", "unit price (required while guest)")
	fs.IntVar(&line.Quantity, "qty", 1, "quantity")
	fs.Parse(args)

	if line.SKUID == "" {
		return fmt.Errorf("-sku-id is required")
	}
	if !a.session.Authenticated() && (line.SKUCode == "" || line.UnitPrice == "") {
		return fmt.Errorf("-sku and -price are required for a guest cart")
	}

	if err := a.session.AddItem(ctx, line); err != nil {
		return err
	}
	return a.show(ctx)
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	key := fs.String("key", "", "line key: SKU code while guest, item id when logged in")
	qty := fs.Int("qty", 0, "new quantity; 0 removes the line")
	fs.Parse(args)

	if *key == "" {
		return fmt.Errorf("-key is required")
	}
	if err := a.session.UpdateQuantity(ctx, *key, *qty); err != nil {
		return err
	}
	return a.show(ctx)
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	key := fs.String("key", "", "line key: SKU code while guest, item id when logged in")
	fs.Parse(args)

	if *key == "" {
		return fmt.Errorf("-key is required")
	}
	if err := a.session.RemoveItem(ctx, *key); err != nil {
		return err
	}
	return a.show(ctx)
}

func (a *app) clear(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	return a.show(ctx)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	access := fs.String("access", "", "access token (required)")
	refresh := fs.String("refresh", "", "refresh token")
	fs.Parse(args)

	out, err := a.session.Login(ctx, domain.TokenPair{Access: *access, Refresh: *refresh})
	if err != nil {
		return err
	}
	if len(out.Merged) > 0 {
		a.logger.Printf("merged %d guest line(s) into the server cart", len(out.Merged))
	}
	for _, f := range out.Failed {
		a.logger.Printf("could not merge %s: %v (kept locally)", f.SKUCode, f.Err)
	}
	return a.show(ctx)
}

func (a *app) logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("logged out; cart is empty")
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	method := fs.String("method", checkout.PaymentCOD, "payment method: stripe or cod")
	coupon := fs.String("coupon", "", "coupon code")
	addressID := fs.String("address-id", "", "stored address id (logged in)")
	email := fs.String("email", "", "guest email")
	name := fs.String("name", "", "guest name")
	phone := fs.String("phone", "", "guest phone")
	line1 := fs.String("line1", "", "guest address line 1")
	city := fs.String("city", "", "guest address city")
	postal := fs.String("postal", "", "guest address postal code")
	country := fs.String("country", "", "guest address country")
	fs.Parse(args)

	svc := checkout.New(a.session, a.client)

	var guest *checkout.GuestDetails
	if !a.session.Authenticated() {
		guest = &checkout.GuestDetails{
			Email: *email,
			Name:  *name,
			Phone: *phone,
			Address: remotecart.ShippingAddress{
				Line1:      *line1,
				City:       *city,
				PostalCode: *postal,
				Country:    *country,
			},
		}
	}

	res, err := svc.Submit(ctx, guest, checkout.Options{
		PaymentMethod: *method,
		CouponCode:    *coupon,
		AddressID:     *addressID,
	})
	if err != nil {
		return err
	}

	if res.RedirectURL != "" {
		fmt.Printf("complete payment at: %s\n", res.RedirectURL)
		return nil
	}
	fmt.Printf("order %s created (%s)\n", res.OrderID, res.Status)
	return nil
}

func printSnapshot(snap domain.CartSnapshot, state session.State) {
	if len(snap.Items) == 0 {
		fmt.Printf("cart is empty (%s)\n", state)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSKU\tPRODUCT\tQTY\tUNIT\tTOTAL")
	for _, line := range snap.Items {
		key := line.SKUCode
		if line.Origin == domain.OriginRemote {
			key = line.ItemID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			key, line.SKUCode, line.ProductName, line.Quantity, line.UnitPrice, line.LineTotal)
	}
	w.Flush()
	fmt.Printf("subtotal %s, %d item(s), %s\n", snap.Subtotal, snap.Count, state)
}
