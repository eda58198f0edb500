package services

import (
	"storerating/internal/models"

	"github.com/shopspring/decimal"
)

// AverageRating returns the arithmetic mean of the rating values rounded
// half away from zero to two decimals. A store without ratings averages 0.
func AverageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r.Value)
	}
	avg := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(2)
	return avg.InexactFloat64()
}

func summarizeStore(store models.Store) StoreSummary {
	return StoreSummary{
		ID:            store.ID,
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		OwnerID:       store.OwnerID,
		AverageRating: AverageRating(store.Ratings),
		RatingCount:   len(store.Ratings),
		CreatedAt:     store.CreatedAt,
	}
}

func ownerStoreView(store models.Store) OwnerStoreView {
	view := OwnerStoreView{
		ID:            store.ID,
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		AverageRating: AverageRating(store.Ratings),
		Ratings:       make([]RatingView, 0, len(store.Ratings)),
	}
	for _, r := range store.Ratings {
		rv := RatingView{
			ID:        r.ID,
			Rating:    r.Value,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		}
		if r.User != nil {
			rv.User = &RatingAuthor{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
		}
		view.Ratings = append(view.Ratings, rv)
	}
	return view
}
