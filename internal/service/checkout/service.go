package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

// Service runs the order-placement workflow: it turns the caller's mutable
// cart into an immutable, priced order in one pass. Every step is sequential
// and a failure at any step aborts the whole request with no writes.
type Service struct {
	carts     cartRepo
	products  productRepo
	addresses addressRepo
	geo       geoRepo
	coupons   couponRepo
	shipping  shippingRepo
	orders    orderRepo
	logger    *log.Logger
	now       func() time.Time
}

type cartRepo interface {
	GetActiveByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	MappingsForProducts(ctx context.Context, productIDs []string) ([]domain.AttributeMapping, error)
}

type addressRepo interface {
	GetByIDForUser(ctx context.Context, userID, id string) (*domain.UserAddress, error)
	Create(ctx context.Context, addr domain.UserAddress) (*domain.UserAddress, error)
}

type geoRepo interface {
	GetCity(ctx context.Context, id string) (*domain.City, error)
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type shippingRepo interface {
	GetMethodByID(ctx context.Context, id string) (*domain.ShippingMethod, error)
	ResolveForCity(ctx context.Context, countryID, cityID string) (*domain.ShippingMethod, error)
}

type orderRepo interface {
	Commit(ctx context.Context, in orderrepo.CommitInput) (*domain.Order, error)
}

type Deps struct {
	Carts     cartRepo
	Products  productRepo
	Addresses addressRepo
	Geo       geoRepo
	Coupons   couponRepo
	Shipping  shippingRepo
	Orders    orderRepo
}

func New(deps Deps, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:     deps.Carts,
		products:  deps.Products,
		addresses: deps.Addresses,
		geo:       deps.Geo,
		coupons:   deps.Coupons,
		shipping:  deps.Shipping,
		orders:    deps.Orders,
		logger:    logger,
		now:       time.Now,
	}
}

// NewAddressInput is the payload for creating a shipping address inline.
type NewAddressInput struct {
	CountryID string `json:"countryId"`
	CityID    string `json:"cityId"`
	Street    string `json:"street"`
	FullName  string `json:"fullName"`
	Mobile    string `json:"mobile"`
	IsDefault bool   `json:"isDefault"`
}

// SelectionInput is a requested (attribute, value) choice for one line.
type SelectionInput struct {
	AttributeID string `json:"attributeId"`
	ValueID     string `json:"valueId,omitempty"`
	Value       string `json:"value,omitempty"`
}

// LineOverride adjusts one cart line for this checkout only; the stored cart
// line is never mutated. A nil Quantity keeps the line's stored quantity, and
// nil Selections keep the line's stored selections.
type LineOverride struct {
	LineID     string           `json:"lineId"`
	Quantity   *int             `json:"quantity,omitempty"`
	Selections []SelectionInput `json:"attributeSelections,omitempty"`
}

type PlaceOrderInput struct {
	ShippingAddressID *string          `json:"shippingAddressId,omitempty"`
	NewAddress        *NewAddressInput `json:"newAddress,omitempty"`
	CouponCode        string           `json:"couponCode,omitempty"`
	ShippingMethodID  *string          `json:"shippingMethodId,omitempty"`
	Lines             []LineOverride   `json:"lines,omitempty"`
}

// PlaceOrder executes the checkout pipeline for the given caller. The caller
// identity is always an explicit parameter, never ambient state.
func (s *Service) PlaceOrder(ctx context.Context, callerID string, in PlaceOrderInput) (*domain.Order, error) {
	cart, err := s.loadCart(ctx, callerID)
	if err != nil {
		return nil, err
	}

	addr, err := s.resolveAddress(ctx, callerID, in)
	if err != nil {
		return nil, err
	}

	coupon, err := s.validateCoupon(ctx, in.CouponCode)
	if err != nil {
		return nil, err
	}

	overrides := indexOverrides(in.Lines)

	lineAttrs, err := s.validateSelections(ctx, cart, overrides)
	if err != nil {
		return nil, err
	}

	priced, err := priceCart(cart, overrides)
	if err != nil {
		return nil, err
	}

	discount := discountFor(coupon, priced.SubtotalCents)

	method, err := s.resolveShippingMethod(ctx, in.ShippingMethodID, addr)
	if err != nil {
		return nil, err
	}
	shippingCost := shippingCostFor(method, coupon, priced.SubtotalCents)

	assembled, err := assembleOrder(assembleInput{
		CallerID:      callerID,
		Cart:          cart,
		Address:       addr,
		Coupon:        coupon,
		Method:        method,
		Priced:        priced,
		DiscountCents: discount,
		ShippingCents: shippingCost,
		LineAttrs:     lineAttrs,
		OrderNumber:   newOrderNumber(s.now()),
	})
	if err != nil {
		return nil, err
	}

	order, err := s.commit(ctx, cart, coupon, priced, assembled)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("checkout: placed order_number=%s user_id=%s total_cents=%d", order.OrderNumber, callerID, order.TotalCents)
	return order, nil
}

func (s *Service) loadCart(ctx context.Context, callerID string) (*domain.Cart, error) {
	cart, err := s.carts.GetActiveByUser(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}
	return cart, nil
}

// commit hands the assembled graph to storage. A conditional update losing a
// race surfaces as domain.ErrConflict; the workflow revalidates against fresh
// rows and retries exactly once, then gives up.
func (s *Service) commit(ctx context.Context, cart *domain.Cart, coupon *domain.Coupon, priced pricedCart, in orderrepo.CommitInput) (*domain.Order, error) {
	order, err := s.orders.Commit(ctx, in)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}
	s.logger.Printf("checkout: commit conflict, revalidating user_id=%s", in.Order.UserID)

	if err := s.revalidateStock(ctx, priced); err != nil {
		return nil, err
	}
	if coupon != nil {
		fresh, err := s.coupons.GetByCode(ctx, coupon.Code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrCouponInvalid
			}
			return nil, err
		}
		if fresh.Exhausted() {
			return nil, domain.ErrCouponExhausted
		}
	}

	return s.orders.Commit(ctx, in)
}

func (s *Service) revalidateStock(ctx context.Context, priced pricedCart) error {
	for _, pl := range priced.Lines {
		p, err := s.products.GetByID(ctx, pl.Product.ID)
		if err != nil {
			return err
		}
		if !p.AllowBackorder && p.StockQuantity < pl.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   pl.Quantity,
				Available:   p.StockQuantity,
			}
		}
	}
	return nil
}

func indexOverrides(lines []LineOverride) map[string]LineOverride {
	if len(lines) == 0 {
		return nil
	}
	out := make(map[string]LineOverride, len(lines))
	for _, l := range lines {
		if _, ok := out[l.LineID]; !ok {
			out[l.LineID] = l
		}
	}
	return out
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
