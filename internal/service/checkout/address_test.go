package checkout

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

func TestResolveAddress_ExistingID(t *testing.T) {
	addresses := &stubAddressRepo{addr: addr1()}
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, addresses, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	id := "addr-1"
	addr, err := svc.resolveAddress(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &id})
	if err != nil {
		t.Fatalf("resolve address: %v", err)
	}
	if addr.ID != "addr-1" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestResolveAddress_UnknownID(t *testing.T) {
	addresses := &stubAddressRepo{getErr: domain.ErrNotFound}
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, addresses, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	id := "someone-elses"
	if _, err := svc.resolveAddress(context.Background(), "user-1", PlaceOrderInput{ShippingAddressID: &id}); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestResolveAddress_Neither(t *testing.T) {
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, &stubAddressRepo{}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	if _, err := svc.resolveAddress(context.Background(), "user-1", PlaceOrderInput{}); !errors.Is(err, domain.ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestResolveAddress_NewAddress(t *testing.T) {
	addresses := &stubAddressRepo{}
	geo := &stubGeoRepo{city: &domain.City{ID: "city-1", CountryID: "country-1", Name: "Tallinn"}}
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, addresses, geo, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	addr, err := svc.resolveAddress(context.Background(), "user-1", PlaceOrderInput{NewAddress: &NewAddressInput{
		CountryID: "country-1",
		CityID:    "city-1",
		Street:    "  Main St 1  ",
		FullName:  "Ada Example",
		Mobile:    "+372 5555 5555",
		IsDefault: true,
	}})
	if err != nil {
		t.Fatalf("resolve address: %v", err)
	}
	if addr.ID != "addr-created" {
		t.Fatalf("expected persisted address, got %+v", addr)
	}
	if addresses.lastCreate.Street != "Main St 1" {
		t.Fatalf("expected trimmed street, got %q", addresses.lastCreate.Street)
	}
	if addresses.lastCreate.UserID != "user-1" || !addresses.lastCreate.IsDefault {
		t.Fatalf("unexpected create payload: %+v", addresses.lastCreate)
	}
}

func TestResolveAddress_NewAddressValidation(t *testing.T) {
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, &stubAddressRepo{}, &stubGeoRepo{}, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	_, err := svc.resolveAddress(context.Background(), "user-1", PlaceOrderInput{NewAddress: &NewAddressInput{
		CountryID: "country-1",
		Street:    "   ",
	}})
	var fields domain.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, f := range []string{"cityId", "street", "fullName", "mobile"} {
		if fields[f] != "required" {
			t.Fatalf("expected %s to be required, got %+v", f, fields)
		}
	}
	if _, ok := fields["countryId"]; ok {
		t.Fatalf("countryId was supplied, got %+v", fields)
	}
}

func TestResolveAddress_CityCountryMismatch(t *testing.T) {
	geo := &stubGeoRepo{city: &domain.City{ID: "city-1", CountryID: "country-other", Name: "Riga"}}
	svc := testService(&stubCartRepo{}, &stubProductRepo{}, &stubAddressRepo{}, geo, &stubCouponRepo{}, &stubShippingRepo{}, &stubOrderRepo{})

	in := PlaceOrderInput{NewAddress: &NewAddressInput{
		CountryID: "country-1",
		CityID:    "city-1",
		Street:    "Main St 1",
		FullName:  "Ada Example",
		Mobile:    "+372 5555 5555",
	}}
	_, err := svc.resolveAddress(context.Background(), "user-1", in)
	var fields domain.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fields["cityId"] != "city does not belong to the selected country" {
		t.Fatalf("unexpected field errors: %+v", fields)
	}

	geo.city = nil
	geo.err = domain.ErrNotFound
	_, err = svc.resolveAddress(context.Background(), "user-1", in)
	if !errors.As(err, &fields) || fields["cityId"] != "unknown city" {
		t.Fatalf("expected unknown city error, got %v", err)
	}
}
