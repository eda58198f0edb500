package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"storerating/internal/apperrors"
	"storerating/internal/metrics"
	"storerating/internal/models"
	"storerating/internal/pagination"
	"storerating/internal/repositories"
	"storerating/internal/validation"

	"github.com/rs/zerolog"
)

const (
	SortByName    = "name"
	SortByEmail   = "email"
	SortByAddress = "address"
	SortByRating  = "rating"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// StoreService handles store creation, rating and store listings.
type StoreService struct {
	stores   repositories.StoreRepository
	users    repositories.UserRepository
	ratings  repositories.RatingRepository
	validate *validation.Validator
	events   EventPublisher
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewStoreService creates a new StoreService. events and m may be nil.
func NewStoreService(
	stores repositories.StoreRepository,
	users repositories.UserRepository,
	ratings repositories.RatingRepository,
	events EventPublisher,
	m *metrics.Metrics,
	log zerolog.Logger,
) *StoreService {
	return &StoreService{
		stores:   stores,
		users:    users,
		ratings:  ratings,
		validate: validation.New(),
		events:   events,
		metrics:  m,
		log:      log,
	}
}

// CreateStoreInput carries the admin store form. OwnerID is either a user
// id or, when it contains "@", the email of a Store Owner.
type CreateStoreInput struct {
	Name    string `json:"name" validate:"required,min=1,max=60" label:"Store name"`
	Email   string `json:"email" validate:"omitempty,emailshape" label:"Email"`
	Address string `json:"address" validate:"required,max=400" label:"Address"`
	OwnerID string `json:"ownerId"`
}

// CreateStore validates the input, resolves the optional owner and
// persists the store.
func (s *StoreService) CreateStore(ctx context.Context, in CreateStoreInput) (*models.Store, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.OwnerID = strings.TrimSpace(in.OwnerID)

	if msgs := s.validate.Check(in); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	store := &models.Store{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
	}
	if in.OwnerID != "" {
		owner, err := s.resolveOwner(ctx, in.OwnerID)
		if err != nil {
			return nil, err
		}
		store.OwnerID = &owner.ID
	}

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("store_id", store.ID).Msg("store created")
	return store, nil
}

func (s *StoreService) resolveOwner(ctx context.Context, ref string) (*models.User, error) {
	if strings.Contains(ref, "@") {
		owner, err := s.users.GetByEmail(ctx, ref)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.NotFound("Store owner not found with this email.")
			}
			return nil, apperrors.Internal(err)
		}
		if owner.Role != models.RoleStoreOwner {
			return nil, apperrors.NotFound("Store owner not found with this email.")
		}
		return owner, nil
	}

	owner, err := s.users.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Owner user not found by ID.")
		}
		return nil, apperrors.Internal(err)
	}
	if owner.Role != models.RoleStoreOwner {
		return nil, apperrors.RoleMismatch("User is not a Store Owner.")
	}
	return owner, nil
}

// RateStore records userID's score for storeID, overwriting an earlier score
// by the same user. created reports whether a new rating row was inserted.
func (s *StoreService) RateStore(ctx context.Context, storeID, userID string, value int) (rating *models.Rating, created bool, err error) {
	if !models.ValidRating(value) {
		return nil, false, apperrors.InvalidRating()
	}

	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperrors.NotFound("Store not found.")
		}
		return nil, false, apperrors.Internal(err)
	}

	_, err = s.ratings.FindByUserAndStore(ctx, userID, storeID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		created = true
	default:
		return nil, false, apperrors.Internal(err)
	}

	rating = &models.Rating{Value: value, UserID: userID, StoreID: storeID}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, false, apperrors.Internal(err)
	}

	s.metrics.RatingSaved(created)
	s.publish(RatingEvent{
		Type:       EventRatingSubmitted,
		RatingID:   rating.ID,
		StoreID:    storeID,
		UserID:     userID,
		Rating:     rating.Value,
		Created:    created,
		OccurredAt: time.Now().UTC(),
	})
	return rating, created, nil
}

// publish is best effort: the rating is already stored.
func (s *StoreService) publish(event RatingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(event); err != nil {
		s.log.Warn().Err(err).Str("rating_id", event.RatingID).Msg("failed to publish rating event")
	}
}

// StoreQuery holds the list filters, ordering and page selection.
type StoreQuery struct {
	Name      string  `query:"name"`
	Email     string  `query:"email"`
	Address   string  `query:"address"`
	MinRating float64 `query:"minRating"`
	SortBy    string  `query:"sortBy"`
	Order     string  `query:"order"`
	Page      int     `query:"page"`
	Limit     int     `query:"limit"`
}

func (q *StoreQuery) normalize() []string {
	var msgs []string
	q.SortBy = strings.TrimSpace(q.SortBy)
	switch q.SortBy {
	case "":
		q.SortBy = SortByName
	case "averageRating":
		q.SortBy = SortByRating
	case SortByName, SortByEmail, SortByAddress, SortByRating:
	default:
		msgs = append(msgs, "sortBy must be one of name, email, address, rating.")
	}
	if msg := normalizeOrder(&q.Order); msg != "" {
		msgs = append(msgs, msg)
	}
	if q.MinRating < 0 || q.MinRating > models.MaxRating {
		msgs = append(msgs, "minRating must be between 0 and 5.")
	}
	return msgs
}

func normalizeOrder(order *string) string {
	*order = strings.ToLower(strings.TrimSpace(*order))
	switch *order {
	case "":
		*order = OrderAsc
	case OrderAsc, OrderDesc:
	default:
		return "order must be asc or desc."
	}
	return ""
}

// ListStores filters stores, computes their averages, applies the minimum
// rating, sorts and finally paginates.
func (s *StoreService) ListStores(ctx context.Context, q StoreQuery) (pagination.Page[StoreSummary], error) {
	if msgs := q.normalize(); len(msgs) > 0 {
		return pagination.Page[StoreSummary]{}, apperrors.Validation(msgs)
	}

	stores, err := s.stores.ListWithRatings(ctx, repositories.StoreFilter{
		Name:    q.Name,
		Email:   q.Email,
		Address: q.Address,
	})
	if err != nil {
		return pagination.Page[StoreSummary]{}, apperrors.Internal(err)
	}

	summaries := make([]StoreSummary, 0, len(stores))
	for _, store := range stores {
		summary := summarizeStore(store)
		if q.MinRating > 0 && summary.AverageRating < q.MinRating {
			continue
		}
		summaries = append(summaries, summary)
	}

	sortSummaries(summaries, q.SortBy, q.Order == OrderDesc)

	params := pagination.Params{Page: q.Page, Limit: q.Limit}
	return pagination.NewPage(pagination.Slice(summaries, params), int64(len(summaries)), params), nil
}

func sortSummaries(items []StoreSummary, sortBy string, desc bool) {
	key := func(s StoreSummary) string {
		switch sortBy {
		case SortByEmail:
			return strings.ToLower(s.Email)
		case SortByAddress:
			return strings.ToLower(s.Address)
		default:
			return strings.ToLower(s.Name)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		if sortBy == SortByRating {
			switch {
			case a.AverageRating < b.AverageRating:
				cmp = -1
			case a.AverageRating > b.AverageRating:
				cmp = 1
			}
		} else {
			cmp = strings.Compare(key(a), key(b))
		}
		if cmp == 0 {
			cmp = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// OwnerDashboard lists the stores owned by the user with ownerEmail, each
// with its average and individual ratings.
func (s *StoreService) OwnerDashboard(ctx context.Context, ownerEmail string) ([]OwnerStoreView, error) {
	owner, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Owner not found.")
		}
		return nil, apperrors.Internal(err)
	}
	return loadOwnedStores(ctx, s.stores, owner.ID)
}

func loadOwnedStores(ctx context.Context, repo repositories.StoreRepository, ownerID string) ([]OwnerStoreView, error) {
	stores, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	views := make([]OwnerStoreView, 0, len(stores))
	for _, store := range stores {
		views = append(views, ownerStoreView(store))
	}
	return views, nil
}
