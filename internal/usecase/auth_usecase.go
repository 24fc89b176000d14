package usecase

import (
	"context"
	"errors"
	"strings"

	"pharmalink/internal/converter"
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/delivery/http/middleware"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/domain/repository"
	"pharmalink/internal/infrastructure/cache"
	"pharmalink/internal/service"
	"pharmalink/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPhoneAlreadyExists = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUnauthenticated    = errors.New("user not found in context")
)

// AuthUsecase is the session service: it issues and revokes tokens and owns
// the signed-in user's profile.
type AuthUsecase interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.ProfileResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.TokenResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetSession(ctx context.Context) (*dto.SessionResponse, error)
	GetProfile(ctx context.Context) (*dto.ProfileResponse, error)
	RefreshProfile(ctx context.Context) (*dto.ProfileResponse, error)
	CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest) (*dto.ProfileResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	authUserRepo repository.AuthUserRepository
	profileRepo  repository.ProfileRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokens       cache.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	authUserRepo repository.AuthUserRepository,
	profileRepo repository.ProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokens cache.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		authUserRepo: authUserRepo,
		profileRepo:  profileRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokens:       tokens,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.ProfileResponse, error) {
	phone := strings.TrimSpace(req.Phone)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.authUserRepo.FindByPhone(tx, phone)
	if err != nil {
		u.log.Warnf("Failed to find user by phone: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyExists
	}

	user := &entity.AuthUser{
		Phone:        phone,
		PasswordHash: string(hashedPassword),
	}
	if err := u.authUserRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "phone") {
			return nil, ErrPhoneAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.Profile{ID: user.ID, Phone: phone, Role: entity.RoleClient}
	if err := u.profileRepo.EnsureExists(tx, profile); err != nil {
		u.log.Warnf("Failed to create profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserSignUp, "profile", user.ID.String(), entity.JSON{"phone": phone}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ProfileToResponse(profile), nil
}

// SignIn checks credentials, makes sure a profile row exists and issues a token pair.
func (u *authUsecase) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.TokenResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.authUserRepo.FindByPhone(db, strings.TrimSpace(req.Phone))
	if err != nil {
		u.log.Warnf("Failed to find user by phone: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// existing profiles keep their role and name
	if err := u.profileRepo.EnsureExists(db, &entity.Profile{ID: user.ID, Phone: user.Phone, Role: entity.RoleClient}); err != nil {
		u.log.Warnf("Failed to ensure profile: %+v", err)
		return nil, err
	}

	profile, err := u.profileRepo.FindByID(db, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	tokens, err := u.issueTokens(ctx, profile.ID, profile.Phone, profile.Role)
	if err != nil {
		return nil, err
	}
	tokens.Profile = converter.ProfileToResponse(profile)
	return tokens, nil
}

// SignOut revokes the current access token and, when given, the refresh token.
func (u *authUsecase) SignOut(ctx context.Context, refreshToken string) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if err := u.tokens.Delete(ctx, cache.AccessTokenKind, userID, tokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.UserID != userID || claims.TokenType != jwt.RefreshToken {
		// an unusable refresh token expires on its own
		return nil
	}
	if err := u.tokens.Delete(ctx, cache.RefreshTokenKind, userID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete refresh token: %+v", err)
		return err
	}
	return nil
}

// RefreshToken rotates a refresh token. The role is re-read from the profile so
// a promotion to agent applies on the next refresh.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokens.Exists(ctx, cache.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokens.Delete(ctx, cache.RefreshTokenKind, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	profile, err := u.profileRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	return u.issueTokens(ctx, profile.ID, profile.Phone, profile.Role)
}

func (u *authUsecase) GetSession(ctx context.Context) (*dto.SessionResponse, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	phone, _ := middleware.GetUserPhoneFromContext(ctx)
	tokenID, _ := middleware.GetTokenIDFromContext(ctx)

	return &dto.SessionResponse{
		UserID:  userID,
		Phone:   phone,
		Role:    string(role),
		TokenID: tokenID,
	}, nil
}

func (u *authUsecase) GetProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := u.profileRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return converter.ProfileToResponse(profile), nil
}

// RefreshProfile re-reads the profile after an out-of-band change.
func (u *authUsecase) RefreshProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	return u.GetProfile(ctx)
}

// CompleteProfile sets the display name chosen during onboarding.
func (u *authUsecase) CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest) (*dto.ProfileResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.profileRepo.UpdateFullName(tx, userID, fullName)
	if err != nil {
		u.log.Warnf("Failed to update profile %s: %+v", userID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProfileNotFound
	}

	profile, err := u.profileRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileComplete, "profile", userID.String(), nil, entity.JSON{"full_name": fullName}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ProfileToResponse(profile), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, phone string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, phone, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, phone, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokens.Save(ctx, cache.AccessTokenKind, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokens.Save(ctx, cache.RefreshTokenKind, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// actorFromContext returns the signed-in user and role set by the auth middleware.
func actorFromContext(ctx context.Context) (uuid.UUID, entity.Role, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, "", ErrUnauthenticated
	}
	role, ok := middleware.GetRoleFromContext(ctx)
	if !ok || !role.IsValid() {
		return uuid.Nil, "", ErrUnauthenticated
	}
	return userID, role, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
