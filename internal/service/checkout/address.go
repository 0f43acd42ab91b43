package checkout

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
)

// resolveAddress picks the shipping destination: either an existing address id
// owned by the caller, or a new payload validated and persisted on the spot.
// The two modes are mutually exclusive; supplying neither fails the request.
func (s *Service) resolveAddress(ctx context.Context, callerID string, in PlaceOrderInput) (*domain.UserAddress, error) {
	switch {
	case in.ShippingAddressID != nil && *in.ShippingAddressID != "":
		addr, err := s.addresses.GetByIDForUser(ctx, callerID, *in.ShippingAddressID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrAddressNotFound
			}
			return nil, err
		}
		return addr, nil
	case in.NewAddress != nil:
		return s.createAddress(ctx, callerID, *in.NewAddress)
	default:
		return nil, domain.ErrAddressRequired
	}
}

func (s *Service) createAddress(ctx context.Context, callerID string, in NewAddressInput) (*domain.UserAddress, error) {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(in.CountryID) == "" {
		fields["countryId"] = "required"
	}
	if strings.TrimSpace(in.CityID) == "" {
		fields["cityId"] = "required"
	}
	if strings.TrimSpace(in.Street) == "" {
		fields["street"] = "required"
	}
	if strings.TrimSpace(in.FullName) == "" {
		fields["fullName"] = "required"
	}
	if strings.TrimSpace(in.Mobile) == "" {
		fields["mobile"] = "required"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	city, err := s.geo.GetCity(ctx, in.CityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.FieldErrors{"cityId": "unknown city"}
		}
		return nil, err
	}
	if city.CountryID != in.CountryID {
		return nil, domain.FieldErrors{"cityId": "city does not belong to the selected country"}
	}

	return s.addresses.Create(ctx, domain.UserAddress{
		UserID:    callerID,
		CountryID: in.CountryID,
		CityID:    in.CityID,
		Street:    strings.TrimSpace(in.Street),
		FullName:  strings.TrimSpace(in.FullName),
		Mobile:    strings.TrimSpace(in.Mobile),
		IsDefault: in.IsDefault,
	})
}
