package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/pkg/log"
	"github.com/shopspring/decimal"
)

// GiftIdeas возвращает идеи подарков близкого.
//
// При maxPrice != nil остаются идеи с ценой не выше maxPrice (по возрастанию цены),
// а идеи без распознаваемой цены идут в конце в исходном порядке.
// Без maxPrice возвращается исходный список.
func (s *Service) GiftIdeas(ctx context.Context, ownerID, id uuid.UUID, maxPrice *decimal.Decimal) ([]models.GiftIdea, error) {
	const op = "service/gifts/GiftIdeas"

	lg := log.From(ctx).With("op", op, "owner_id", ownerID.String(), "profile_id", id.String())

	if maxPrice != nil && maxPrice.IsNegative() {
		lg.Warn("invalid argument: negative max_price")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	p, err := s.Load(ctx, ownerID, models.VariantLovedOne, id)
	if err != nil {
		return nil, err
	}

	if maxPrice == nil {
		return p.GiftIdeas, nil
	}

	type priced struct {
		idea   models.GiftIdea
		amount decimal.Decimal
	}

	var (
		within   []priced
		unpriced []models.GiftIdea
	)

	for _, g := range p.GiftIdeas {
		amount, ok := g.PriceAmount()
		switch {
		case !ok:
			unpriced = append(unpriced, g)
		case amount.LessThanOrEqual(*maxPrice):
			within = append(within, priced{idea: g, amount: amount})
		}
	}

	sort.SliceStable(within, func(i, j int) bool { return within[i].amount.LessThan(within[j].amount) })

	result := make([]models.GiftIdea, 0, len(within)+len(unpriced))
	for _, w := range within {
		result = append(result, w.idea)
	}

	return append(result, unpriced...), nil
}
