package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// GuestCartMerger folds an anonymous cart into a user's cart. Satisfied
// by the cart application service; optional, login works without it.
type GuestCartMerger interface {
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) (*cartapp.CartResponse, error)
}

// AuthService handles registration, login, and token rotation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	cartMerger GuestCartMerger
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	cartMerger GuestCartMerger,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cartMerger: cartMerger,
		logger:     logger,
	}
}

// Register creates a new account and logs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issueTokens(user)
}

// Login authenticates a user by email and password. Unknown email and
// wrong password produce the same error so the endpoint does not leak
// which accounts exist. A guest cart token in the request is merged
// into the user's cart after successful authentication; the response
// reports whether the merge happened and carries the merged cart.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("failed login attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login", zap.Error(err))
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if req.GuestCartToken != "" && s.cartMerger != nil {
		merged, mergeErr := s.cartMerger.MergeGuestCart(ctx, user.ID, req.GuestCartToken)
		ok := mergeErr == nil
		resp.GuestCartMerged = &ok
		if mergeErr != nil {
			// Login still succeeds; the guest cart stays in its store
			// and the response tells the client the merge did not happen
			s.logger.Warn("guest cart merge failed during login",
				zap.String("user_id", user.ID.String()),
				zap.Error(mergeErr))
		} else {
			resp.Cart = merged
		}
	}

	return resp, nil
}

// Refresh rotates a token pair. The new access token reflects the
// user's current email and role, so promotions take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
		}
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Email, string(user.Role))
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Session has expired, please log in again")
		}
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	return pair, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the authenticated user's password after
// verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

func (s *AuthService) issueTokens(user *identity.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:   ToUserResponse(user),
		Tokens: pair,
	}, nil
}
