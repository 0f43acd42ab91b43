package checkout

import (
	"context"

	"storefront/internal/domain"
)

// attrIndex is one product's legal attribute set: per attribute, either a
// closed set of value ids or a free-form marker (a mapping row with no value).
type attrIndex struct {
	name     string
	freeForm bool
	values   map[string]string // value id -> display name
}

// validateSelections checks every requested (attribute, value) pair against
// the product's mapping set and returns the validated snapshot records per
// cart line id. Override selections replace the line's stored ones wholesale;
// duplicate attribute ids within one line collapse to the first occurrence.
func (s *Service) validateSelections(ctx context.Context, cart *domain.Cart, overrides map[string]LineOverride) (map[string][]domain.OrderItemAttribute, error) {
	productIDs := make([]string, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	mappings, err := s.products.MappingsForProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	index := make(map[string]map[string]*attrIndex)
	for _, m := range mappings {
		byAttr := index[m.ProductID]
		if byAttr == nil {
			byAttr = make(map[string]*attrIndex)
			index[m.ProductID] = byAttr
		}
		ai := byAttr[m.AttributeID]
		if ai == nil {
			ai = &attrIndex{name: m.AttributeName, values: make(map[string]string)}
			byAttr[m.AttributeID] = ai
		}
		if m.ValueID == nil {
			ai.freeForm = true
		} else {
			ai.values[*m.ValueID] = m.ValueName
		}
	}

	out := make(map[string][]domain.OrderItemAttribute)
	for _, line := range cart.Lines {
		selections := effectiveSelections(line, overrides)
		if len(selections) == 0 {
			continue
		}

		product := line.Product
		byAttr := index[line.ProductID]
		if len(byAttr) == 0 {
			return nil, &domain.NoAttributesDefinedError{
				ProductID:   line.ProductID,
				ProductName: productName(product, line.ProductID),
			}
		}

		seen := make(map[string]bool, len(selections))
		var attrs []domain.OrderItemAttribute
		for _, sel := range selections {
			if seen[sel.AttributeID] {
				continue // first occurrence wins
			}
			seen[sel.AttributeID] = true

			ai := byAttr[sel.AttributeID]
			if ai == nil {
				return nil, &domain.InvalidAttributeSelectionError{
					ProductID:   line.ProductID,
					ProductName: productName(product, line.ProductID),
					AttributeID: sel.AttributeID,
					ValueID:     sel.ValueID,
					Reason:      "attribute not offered for this product",
				}
			}

			snapshot := domain.OrderItemAttribute{
				AttributeID:   sel.AttributeID,
				AttributeName: ai.name,
			}
			switch {
			case sel.ValueID != "":
				valueName, ok := ai.values[sel.ValueID]
				if !ok {
					return nil, &domain.InvalidAttributeSelectionError{
						ProductID:   line.ProductID,
						ProductName: productName(product, line.ProductID),
						AttributeID: sel.AttributeID,
						ValueID:     sel.ValueID,
						Reason:      "value not offered for this attribute",
					}
				}
				valueID := sel.ValueID
				snapshot.ValueID = &valueID
				snapshot.ValueName = valueName
			case ai.freeForm:
				snapshot.Value = sel.Value
			default:
				return nil, &domain.InvalidAttributeSelectionError{
					ProductID:   line.ProductID,
					ProductName: productName(product, line.ProductID),
					AttributeID: sel.AttributeID,
					Reason:      "a value is required for this attribute",
				}
			}
			attrs = append(attrs, snapshot)
		}
		out[line.ID] = attrs
	}
	return out, nil
}

// effectiveSelections applies per-request overrides without touching the
// stored cart line.
func effectiveSelections(line domain.CartLine, overrides map[string]LineOverride) []domain.AttributeSelection {
	if ov, ok := overrides[line.ID]; ok && ov.Selections != nil {
		out := make([]domain.AttributeSelection, 0, len(ov.Selections))
		for _, sel := range ov.Selections {
			out = append(out, domain.AttributeSelection{
				AttributeID: sel.AttributeID,
				ValueID:     sel.ValueID,
				Value:       sel.Value,
			})
		}
		return out
	}
	return line.Selections
}

func productName(p *domain.Product, fallback string) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return fallback
}
