package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"herbal-store-client/internal/api"
	"herbal-store-client/internal/cart"
	"herbal-store-client/internal/checkout"
	"herbal-store-client/internal/config"
	"herbal-store-client/internal/coupon"
	"herbal-store-client/internal/logger"
	"herbal-store-client/internal/order"
	"herbal-store-client/internal/payment"
	"herbal-store-client/internal/product"
	"herbal-store-client/internal/session"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var sess *session.Store
	client := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithTokenSource(func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		}),
	)
	sess = session.NewStore(client)

	app := &app{
		cfg:      cfg,
		sess:     sess,
		client:   client,
		cart:     cart.NewStore(),
		coupons:  coupon.NewStore(client),
		orders:   order.NewStore(client),
		products: product.NewStore(client),
	}
	app.orch = checkout.New(app.cart, app.coupons, app.orders,
		payment.NewFlow(client, cfg.StoreName))

	fmt.Printf("%s — type 'help' for commands\n", cfg.StoreName)
	app.run(bufio.NewScanner(os.Stdin))
}

type app struct {
	cfg      *config.Config
	client   *api.Client
	sess     *session.Store
	cart     *cart.Store
	coupons  *coupon.Store
	orders   *order.Store
	products *product.Store
	orch     *checkout.Orchestrator
}

func (a *app) run(in *bufio.Scanner) {
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "login":
			a.login(ctx, args)
		case "logout":
			a.sess.Logout()
			fmt.Println("logged out")
		case "address":
			a.updateAddress(ctx, in)
		case "products":
			a.listProducts(ctx, args)
		case "add":
			a.addToCart(ctx, args)
		case "cart":
			a.showCart()
		case "qty":
			a.updateQuantity(args)
		case "remove":
			if len(args) == 1 {
				a.cart.RemoveItem(args[0])
			}
			a.showCart()
		case "coupon":
			a.applyCoupon(ctx, args)
		case "checkout":
			a.checkout(ctx, in, args)
		case "orders":
			a.listOrders(ctx)
		case "order":
			a.showOrder(ctx, args)
		case "cancel":
			a.cancelOrder(ctx, args)
		case "stats":
			snap := a.client.Stats()
			fmt.Printf("requests=%d transport_errors=%d rejections=%d\n",
				snap.Requests, snap.TransportErrors, snap.Rejections)
		default:
			fmt.Println("unknown command; try 'help'")
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  login <email> <password>      authenticate
  address                       save my shipping address
  products [search]             browse the catalog
  add <product-id> <qty>        add to cart
  cart                          show cart
  qty <product-id> <n>          change a line's quantity
  remove <product-id>           remove a line
  coupon <code>                 validate and apply a coupon
  checkout <cod|online>         place the order
  orders                        list my orders
  order <id>                    show one order
  cancel <id> <reason...>       request cancellation
  stats                         adapter traffic counters
  quit`)
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: login <email> <password>")
		return
	}
	user, err := a.sess.Login(ctx, args[0], args[1])
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	fmt.Printf("welcome, %s\n", user.Name)
}

func (a *app) updateAddress(ctx context.Context, in *bufio.Scanner) {
	addr := a.readAddress(in)
	_, err := a.sess.UpdateProfile(ctx, session.ProfileUpdate{
		Phone: addr.Phone,
		Address: &session.Address{Street: addr.Street, City: addr.City, State: addr.State,
			Pincode: addr.Pincode, Country: addr.Country},
	})
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	fmt.Println("address saved")
}

func (a *app) listProducts(ctx context.Context, args []string) {
	search := strings.Join(args, " ")
	products, err := a.products.List(ctx, search, "")
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	for _, p := range products {
		fmt.Printf("%s  %-30s ₹%s  (stock %d)\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
	}
}

func (a *app) addToCart(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: add <product-id> <qty>")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("quantity must be a number")
		return
	}
	p, err := a.products.GetByID(ctx, args[0])
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	a.cart.AddItem(cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.FirstImageURL(),
	}, qty)
	a.showCart()
}

func (a *app) updateQuantity(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: qty <product-id> <n>")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("quantity must be a number")
		return
	}
	a.cart.UpdateQuantity(args[0], qty)
	a.showCart()
}

func (a *app) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("%d x %-30s ₹%s\n", item.Quantity, item.Name, item.LineTotal().StringFixed(2))
	}
	fmt.Printf("subtotal (%d items): ₹%s\n", a.cart.TotalItems(), a.cart.TotalPrice().StringFixed(2))
	if c := a.coupons.Applied(); c != nil {
		fmt.Printf("coupon %s: -₹%s\n", c.Code, c.DiscountAmount.StringFixed(2))
	}
}

func (a *app) applyCoupon(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: coupon <code>")
		return
	}
	c, err := a.coupons.Validate(ctx, args[0], a.cart.TotalPrice())
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	fmt.Printf("coupon %s applied (-₹%s)\n", c.Code, c.DiscountAmount.StringFixed(2))
}

func (a *app) checkout(ctx context.Context, in *bufio.Scanner, args []string) {
	method := order.MethodCOD
	if len(args) == 1 && args[0] == "online" {
		method = order.MethodOnline
	}

	addr := a.readAddress(in)
	params := checkout.SubmitParams{Address: addr, Method: method}
	if method == order.MethodOnline {
		params.Widget = &terminalWidget{in: in}
		if user := a.sess.CurrentUser(); user != nil {
			params.Prefill = payment.Prefill{Name: user.Name, Email: user.Email, Contact: addr.Phone}
		}
	}

	result, err := a.orch.Submit(ctx, params)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		if result != nil && result.Order != nil {
			// Order exists but is unpaid; send the user to its detail view.
			a.showOrder(ctx, []string{result.Order.ID})
		}
		return
	}
	if result.TotalMismatch {
		fmt.Println("note: the server recomputed your order total; see the order details")
	}
	fmt.Printf("order %s placed (%s)\n", result.Order.ID, result.State)
}

func (a *app) readAddress(in *bufio.Scanner) order.Address {
	read := func(label, fallback string) string {
		fmt.Printf("%s [%s]: ", label, fallback)
		if !in.Scan() {
			return fallback
		}
		if v := strings.TrimSpace(in.Text()); v != "" {
			return v
		}
		return fallback
	}

	var addr order.Address
	user := a.sess.CurrentUser()
	if user != nil {
		addr = order.Address{Name: user.Name, Phone: user.Phone,
			Street: user.Address.Street, City: user.Address.City, State: user.Address.State,
			Pincode: user.Address.Pincode, Country: user.Address.Country}
	}
	if addr.Country == "" {
		addr.Country = "India"
	}

	addr.Name = read("name", addr.Name)
	addr.Phone = read("phone", addr.Phone)
	addr.Street = read("street", addr.Street)
	addr.City = read("city", addr.City)
	addr.State = read("state", addr.State)
	addr.Pincode = read("pincode", addr.Pincode)
	addr.Country = read("country", addr.Country)
	return addr
}

func (a *app) listOrders(ctx context.Context) {
	orders, err := a.orders.ListMine(ctx)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  %-10s ₹%s  paid=%v\n", o.ID, o.Status, o.TotalPrice.StringFixed(2), o.IsPaid)
	}
}

func (a *app) showOrder(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: order <id>")
		return
	}
	o, err := a.orders.GetByID(ctx, args[0])
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	fmt.Printf("order %s  status=%s  total=₹%s  paid=%v delivered=%v\n",
		o.ID, o.Status, o.TotalPrice.StringFixed(2), o.IsPaid, o.IsDelivered)
	for _, item := range o.Items {
		fmt.Printf("  %d x %s @ ₹%s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
	}
	if order.CanCancel(o.Status) {
		fmt.Println("  (this order can still be cancelled)")
	}
}

func (a *app) cancelOrder(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: cancel <id> <reason...>")
		return
	}
	if err := a.orders.Cancel(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}
	fmt.Println("order cancelled")
}

// terminalWidget stands in for the external payment widget: it shows the
// gateway order and reads the gateway's confirmation ids from the user.
type terminalWidget struct {
	in *bufio.Scanner
}

func (w *terminalWidget) Open(_ context.Context, opts payment.Options) (*payment.WidgetResult, error) {
	fmt.Printf("pay %s %.2f for gateway order %s (key %s), then enter the confirmation\n",
		opts.Currency, float64(opts.Amount)/100, opts.OrderID, opts.Key)

	read := func(label string) string {
		fmt.Printf("%s: ", label)
		if !w.in.Scan() {
			return ""
		}
		return strings.TrimSpace(w.in.Text())
	}

	paymentID := read("payment id")
	if paymentID == "" {
		return nil, fmt.Errorf("payment abandoned")
	}
	return &payment.WidgetResult{
		RazorpayOrderID:   opts.OrderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: read("signature"),
	}, nil
}
