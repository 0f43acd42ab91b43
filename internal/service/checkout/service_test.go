package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type stubCartRepo struct {
	cart *domain.Cart
	err  error
}

func (s *stubCartRepo) GetActiveByUser(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

type stubProductRepo struct {
	products map[string]*domain.Product
	mappings []domain.AttributeMapping
	err      error
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubProductRepo) MappingsForProducts(_ context.Context, _ []string) ([]domain.AttributeMapping, error) {
	return s.mappings, s.err
}

type stubAddressRepo struct {
	addr       *domain.UserAddress
	getErr     error
	created    *domain.UserAddress
	createErr  error
	lastCreate domain.UserAddress
}

func (s *stubAddressRepo) GetByIDForUser(_ context.Context, _, _ string) (*domain.UserAddress, error) {
	return s.addr, s.getErr
}

func (s *stubAddressRepo) Create(_ context.Context, addr domain.UserAddress) (*domain.UserAddress, error) {
	s.lastCreate = addr
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	out := addr
	out.ID = "addr-created"
	return &out, nil
}

type stubGeoRepo struct {
	city *domain.City
	err  error
}

func (s *stubGeoRepo) GetCity(_ context.Context, _ string) (*domain.City, error) {
	return s.city, s.err
}

type stubCouponRepo struct {
	coupons map[string]*domain.Coupon
	err     error
	calls   int
}

func (s *stubCouponRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.coupons[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type stubShippingRepo struct {
	byID       *domain.ShippingMethod
	byIDErr    error
	resolved   *domain.ShippingMethod
	resolveErr error
}

func (s *stubShippingRepo) GetMethodByID(_ context.Context, _ string) (*domain.ShippingMethod, error) {
	return s.byID, s.byIDErr
}

func (s *stubShippingRepo) ResolveForCity(_ context.Context, _, _ string) (*domain.ShippingMethod, error) {
	return s.resolved, s.resolveErr
}

type stubOrderRepo struct {
	errs     []error
	calls    int
	lastIn   orderrepo.CommitInput
	onCommit func() // runs before each attempt, simulating a racing writer
}

func (s *stubOrderRepo) Commit(_ context.Context, in orderrepo.CommitInput) (*domain.Order, error) {
	if s.onCommit != nil {
		s.onCommit()
	}
	s.lastIn = in
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	out := in.Order
	out.ID = "order-1"
	return &out, nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testService(carts *stubCartRepo, products *stubProductRepo, addresses *stubAddressRepo, geo *stubGeoRepo, coupons *stubCouponRepo, shipping *stubShippingRepo, orders *stubOrderRepo) *Service {
	svc := New(Deps{
		Carts:     carts,
		Products:  products,
		Addresses: addresses,
		Geo:       geo,
		Coupons:   coupons,
		Shipping:  shipping,
		Orders:    orders,
	}, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func twoLineCart() (*domain.Cart, *stubProductRepo) {
	tee := &domain.Product{ID: "p-tee", SKU: "SKU-TEE", Name: "Tee", PriceCents: 5000, StockQuantity: 10}
	mug := &domain.Product{ID: "p-mug", SKU: "SKU-MUG", Name: "Mug", PriceCents: 2500, StockQuantity: 10}
	cart := &domain.Cart{
		ID: "cart-1",
		Lines: []domain.CartLine{
			{ID: "line-1", CartID: "cart-1", ProductID: "p-tee", Quantity: 2, Product: tee},
			{ID: "line-2", CartID: "cart-1", ProductID: "p-mug", Quantity: 4, Product: mug},
		},
	}
	products := &stubProductRepo{products: map[string]*domain.Product{"p-tee": tee, "p-mug": mug}}
	return cart, products
}

func addr1() *domain.UserAddress {
	return &domain.UserAddress{ID: "addr-1", UserID: "user-1", CountryID: "country-1", CityID: "city-1"}
}

func TestPlaceOrder_Totals(t *testing.T) {
	cart, products := twoLineCart()
	pct := 10.0
	coupons := &stubCouponRepo{coupons: map[string]*domain.Coupon{
		"SAVE10": {ID: "coupon-1", Code: "SAVE10", Percentage: &pct, StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), IsActive: true},
	}}
	shipping := &stubShippingRepo{resolved: &domain.ShippingMethod{ID: "method-1", CostType: domain.ShippingCostFlat, CostCents: 1500}}
	orders := &stubOrderRepo{}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, coupons, shipping, orders)

	addrID := "addr-1"
	order, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		ShippingAddressID: &addrID,
		CouponCode:        "SAVE10",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// 2x5000 + 4x2500 = 20000, 10% off = 2000, flat shipping 1500.
	if order.SubtotalCents != 20000 {
		t.Fatalf("expected subtotal 20000, got %d", order.SubtotalCents)
	}
	if order.DiscountCents != 2000 {
		t.Fatalf("expected discount 2000, got %d", order.DiscountCents)
	}
	if order.ShippingCents != 1500 {
		t.Fatalf("expected shipping 1500, got %d", order.ShippingCents)
	}
	if order.TotalCents != 19500 {
		t.Fatalf("expected total 19500, got %d", order.TotalCents)
	}
	if order.Status != domain.OrderPending || order.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("unexpected initial statuses: %s / %s", order.Status, order.PaymentStatus)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-20250615-") {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if order.CouponCode != "SAVE10" {
		t.Fatalf("expected coupon code on order, got %q", order.CouponCode)
	}

	in := orders.lastIn
	if in.CartID != "cart-1" {
		t.Fatalf("expected cart id in commit input, got %q", in.CartID)
	}
	if in.CouponID == nil || *in.CouponID != "coupon-1" {
		t.Fatalf("expected coupon id in commit input, got %v", in.CouponID)
	}
	if len(in.Items) != 2 || len(in.Stock) != 2 {
		t.Fatalf("expected 2 items and 2 deductions, got %d/%d", len(in.Items), len(in.Stock))
	}
	if in.Items[0].UnitPriceCents != 5000 || in.Items[0].Quantity != 2 {
		t.Fatalf("unexpected first item snapshot: %+v", in.Items[0])
	}
}

func TestPlaceOrder_FreeShippingCoupon(t *testing.T) {
	cart, products := twoLineCart()
	pct := 10.0
	coupons := &stubCouponRepo{coupons: map[string]*domain.Coupon{
		"SAVE10FREE": {ID: "coupon-2", Code: "SAVE10FREE", Percentage: &pct, FreeShipping: true, StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), IsActive: true},
	}}
	shipping := &stubShippingRepo{resolved: &domain.ShippingMethod{ID: "method-1", CostType: domain.ShippingCostFlat, CostCents: 1500}}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, coupons, shipping, &stubOrderRepo{})

	addrID := "addr-1"
	order, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		ShippingAddressID: &addrID,
		CouponCode:        "SAVE10FREE",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.ShippingCents != 0 {
		t.Fatalf("expected free shipping, got %d", order.ShippingCents)
	}
	if order.TotalCents != 18000 {
		t.Fatalf("expected total 18000, got %d", order.TotalCents)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc := testService(&stubCartRepo{err: domain.ErrNotFound}, &stubProductRepo{}, &stubAddressRepo{}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	if _, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{}); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty for missing cart, got %v", err)
	}

	svc = testService(&stubCartRepo{cart: &domain.Cart{ID: "cart-1"}}, &stubProductRepo{}, &stubAddressRepo{}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})
	if _, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{}); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty for lineless cart, got %v", err)
	}
}

func TestPlaceOrder_AddressRequired(t *testing.T) {
	cart, products := twoLineCart()
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	if _, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{}); !errors.Is(err, domain.ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	cart, products := twoLineCart()
	products.products["p-tee"].StockQuantity = 1
	cart.Lines[0].Product.StockQuantity = 1
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{resolveErr: domain.ErrNotFound}, &stubOrderRepo{})

	addrID := "addr-1"
	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Requested != 2 || stockErr.Available != 1 {
		t.Fatalf("unexpected stock error detail: %+v", stockErr)
	}
}

func TestPlaceOrder_BackorderBypassesStock(t *testing.T) {
	poster := &domain.Product{ID: "p-poster", Name: "Poster", PriceCents: 899, StockQuantity: 0, AllowBackorder: true}
	cart := &domain.Cart{ID: "cart-1", Lines: []domain.CartLine{
		{ID: "line-1", CartID: "cart-1", ProductID: "p-poster", Quantity: 3, Product: poster},
	}}
	products := &stubProductRepo{products: map[string]*domain.Product{"p-poster": poster}}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{resolveErr: domain.ErrNotFound}, &stubOrderRepo{})

	addrID := "addr-1"
	order, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.TotalCents != 2697 {
		t.Fatalf("expected total 2697, got %d", order.TotalCents)
	}
}

func TestPlaceOrder_QuantityOverride(t *testing.T) {
	cart, products := twoLineCart()
	shipping := &stubShippingRepo{resolveErr: domain.ErrNotFound}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, shipping, &stubOrderRepo{})

	addrID := "addr-1"
	one := 1
	order, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		ShippingAddressID: &addrID,
		Lines:             []LineOverride{{LineID: "line-2", Quantity: &one}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	// 2x5000 + 1x2500 with no shipping zone matched.
	if order.SubtotalCents != 12500 || order.ShippingCents != 0 {
		t.Fatalf("unexpected totals: subtotal=%d shipping=%d", order.SubtotalCents, order.ShippingCents)
	}

	zero := 0
	_, err = svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		ShippingAddressID: &addrID,
		Lines:             []LineOverride{{LineID: "line-1", Quantity: &zero}},
	})
	var qtyErr *domain.InvalidQuantityError
	if !errors.As(err, &qtyErr) {
		t.Fatalf("expected InvalidQuantityError for zero override, got %v", err)
	}
}

func TestPlaceOrder_ExplicitShippingMethodNotFound(t *testing.T) {
	cart, products := twoLineCart()
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{byIDErr: domain.ErrNotFound}, &stubOrderRepo{})

	addrID := "addr-1"
	methodID := "missing"
	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{
		ShippingAddressID: &addrID,
		ShippingMethodID:  &methodID,
	})
	if !errors.Is(err, domain.ErrShippingMethodNotFound) {
		t.Fatalf("expected ErrShippingMethodNotFound, got %v", err)
	}
}

func TestPlaceOrder_ConflictRetrySucceeds(t *testing.T) {
	cart, products := twoLineCart()
	orders := &stubOrderRepo{errs: []error{domain.ErrConflict}}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{resolveErr: domain.ErrNotFound}, orders)

	addrID := "addr-1"
	order, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if orders.calls != 2 {
		t.Fatalf("expected 2 commit attempts, got %d", orders.calls)
	}
	if order.TotalCents != 20000 {
		t.Fatalf("expected total 20000, got %d", order.TotalCents)
	}
}

func TestPlaceOrder_ConflictRetryStockGone(t *testing.T) {
	cart, products := twoLineCart()
	orders := &stubOrderRepo{errs: []error{domain.ErrConflict}}
	// The racing order drains the shelf during the first commit attempt.
	orders.onCommit = func() { products.products["p-tee"].StockQuantity = 0 }
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{resolveErr: domain.ErrNotFound}, orders)

	addrID := "addr-1"
	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError after conflict, got %v", err)
	}
	if orders.calls != 1 {
		t.Fatalf("expected no second commit attempt, got %d", orders.calls)
	}
}

func TestPlaceOrder_ConflictRetryCouponExhausted(t *testing.T) {
	cart, products := twoLineCart()
	limit := 5
	coupon := &domain.Coupon{ID: "coupon-1", Code: "SAVE", FixedAmountCents: ptrInt64(100), StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), UsageLimit: &limit, TimesUsed: 4, IsActive: true}
	coupons := &stubCouponRepo{coupons: map[string]*domain.Coupon{"SAVE": coupon}}
	orders := &stubOrderRepo{errs: []error{domain.ErrConflict, domain.ErrConflict}}
	// The racing checkout burns the last use during the first commit attempt.
	orders.onCommit = func() { coupon.TimesUsed = 5 }
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, coupons, &stubShippingRepo{resolveErr: domain.ErrNotFound}, orders)

	addrID := "addr-1"
	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID, CouponCode: "SAVE"})
	if !errors.Is(err, domain.ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted after conflict, got %v", err)
	}
	if orders.calls != 1 {
		t.Fatalf("expected no second commit attempt, got %d", orders.calls)
	}
}

func TestPlaceOrder_SecondConflictGivesUp(t *testing.T) {
	cart, products := twoLineCart()
	orders := &stubOrderRepo{errs: []error{domain.ErrConflict, domain.ErrConflict}}
	svc := testService(&stubCartRepo{cart: cart}, products, &stubAddressRepo{addr: addr1()}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{resolveErr: domain.ErrNotFound}, orders)

	addrID := "addr-1"
	_, err := svc.PlaceOrder(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &addrID})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict after exhausted retry, got %v", err)
	}
	if orders.calls != 2 {
		t.Fatalf("expected exactly 2 commit attempts, got %d", orders.calls)
	}
}

func ptrInt64(v int64) *int64 { return &v }
