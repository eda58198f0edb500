package services

import (
	"context"
	"errors"
	"strings"

	"storerating/internal/apperrors"
	"storerating/internal/models"
	"storerating/internal/pagination"
	"storerating/internal/repositories"
	"storerating/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AdminService handles the administrator operations on users and the
// dashboard counters. Store creation and store listings live on
// StoreService.
type AdminService struct {
	users      repositories.UserRepository
	stores     repositories.StoreRepository
	ratings    repositories.RatingRepository
	validate   *validation.Validator
	bcryptCost int
	log        zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	users repositories.UserRepository,
	stores repositories.StoreRepository,
	ratings repositories.RatingRepository,
	bcryptCost int,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:      users,
		stores:     stores,
		ratings:    ratings,
		validate:   validation.New(),
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// CreateUserInput carries the admin user form, which applies the strict
// name and password policy.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60" label:"Name"`
	Email    string `json:"email" validate:"required,emailshape" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=16,hasupper,hasspecial" label:"Password"`
	Address  string `json:"address" validate:"omitempty,max=400" label:"Address"`
	Role     string `json:"role" validate:"required,role" label:"Role"`
}

// CreateUser validates and stores a new account of any role.
func (s *AdminService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Role = strings.TrimSpace(in.Role)

	if msgs := s.validate.Check(in); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.DuplicateEmail(in.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hashed, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     models.Role(in.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.DuplicateEmail(in.Email)
		}
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user created by admin")
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is
// already registered. It reports whether an account was created.
func (s *AdminService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			s.log.Warn().Str("email", existing.Email).Str("role", existing.Role.String()).
				Msg("bootstrap admin email belongs to a non-admin account")
		}
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, apperrors.Internal(err)
	}

	_, err = s.CreateUser(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin.String(),
	})
	if apperrors.HasCode(err, apperrors.CodeDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Dashboard returns the total number of users, stores and ratings.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStores, err = s.stores.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRatings, err = s.ratings.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &stats, nil
}

// UserQuery holds the admin user list filters, ordering and page selection.
type UserQuery struct {
	Name    string `query:"name"`
	Email   string `query:"email"`
	Address string `query:"address"`
	Role    string `query:"role"`
	SortBy  string `query:"sortBy"`
	Order   string `query:"order"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}

var userSortFields = map[string]bool{
	"name": true, "email": true, "address": true, "role": true, "createdAt": true,
}

// ListUsers returns one page of users. Password hashes are never
// serialized.
func (s *AdminService) ListUsers(ctx context.Context, q UserQuery) (pagination.Page[models.User], error) {
	var msgs []string
	q.SortBy = strings.TrimSpace(q.SortBy)
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	if !userSortFields[q.SortBy] {
		msgs = append(msgs, "sortBy must be one of name, email, address, role, createdAt.")
	}
	if msg := normalizeOrder(&q.Order); msg != "" {
		msgs = append(msgs, msg)
	}
	var role models.Role
	if strings.TrimSpace(q.Role) != "" {
		r, ok := models.ParseRole(q.Role)
		if !ok {
			msgs = append(msgs, "role must be one of Admin, Normal User, Store Owner.")
		}
		role = r
	}
	if len(msgs) > 0 {
		return pagination.Page[models.User]{}, apperrors.Validation(msgs)
	}

	params := pagination.Params{Page: q.Page, Limit: q.Limit}.Normalize()
	users, total, err := s.users.List(ctx, repositories.UserFilter{
		Name:    q.Name,
		Email:   q.Email,
		Address: q.Address,
		Role:    role,
		SortBy:  q.SortBy,
		Desc:    q.Order == OrderDesc,
		Offset:  params.Offset(),
		Limit:   params.Limit,
	})
	if err != nil {
		return pagination.Page[models.User]{}, apperrors.Internal(err)
	}
	return pagination.NewPage(users, total, params), nil
}

// GetUserDetails returns a user's public profile. Store Owners also get
// their stores with averages and individual ratings.
func (s *AdminService) GetUserDetails(ctx context.Context, id string) (*UserDetails, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("User not found.")
		}
		return nil, apperrors.Internal(err)
	}

	details := &UserDetails{User: *user}
	if user.Role == models.RoleStoreOwner {
		stores, err := loadOwnedStores(ctx, s.stores, user.ID)
		if err != nil {
			return nil, err
		}
		details.Stores = stores
	}
	return details, nil
}
