package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type userService struct {
	repo        repositories.Repository
	logger      *slog.Logger
	validator   *validator.Validator
	tokens      *TokenManager
	mailer      Mailer
	frontendURL string
	hashCost    int
	now         func() time.Time
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *TokenManager, mailer Mailer, frontendURL string) UserService {
	return &userService{
		repo:        repo,
		logger:      logger,
		validator:   validator,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegistration(req); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fieldError("email", "user with this email already exists.", "unique")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, fieldError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         models.UserRole(stringOr(string(req.UserType), string(models.RoleStudent))),
		IsActive:     true,
		FathersName:  req.FathersName,
		DateOfBirth:  dob,
		SchoolName:   req.SchoolName,
		ClassName:    req.ClassName,
		Address:      req.Address,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return fieldError("email", "user with this email already exists.", "unique")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if user.Role == models.RoleProvider {
			if _, err := ensureProviderProfile(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "user_type", user.Role)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("Login failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, fieldError(validator.NonFieldErrors, "User account is disabled.", "inactive")
	}

	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.User().UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *userService) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*TokenPair, error) {
	claims, err := s.tokens.Parse(req.Refresh, TokenRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.tokens.IssuePair(user)
}

func (s *userService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken, TokenAccess)
	if err != nil {
		return nil, err
	}
	return s.activeUser(ctx, claims)
}

func (s *userService) activeUser(ctx context.Context, claims *Claims) (*models.User, error) {
	userID, _ := claims.UserID()
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	return user, translateRepoError(err, ErrUserNotFound, "get user")
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err, ErrUserNotFound, "get user")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.FathersName != nil {
		user.FathersName = req.FathersName
	}
	if req.DateOfBirth != nil {
		dob, err := parseOptionalDate(req.DateOfBirth)
		if err != nil {
			return nil, fieldError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
		}
		user.DateOfBirth = dob
	}
	if req.SchoolName != nil {
		user.SchoolName = req.SchoolName
	}
	if req.ClassName != nil {
		user.ClassName = req.ClassName
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	bv := s.validator.GetBusinessValidator()
	if errs := append(bv.Validate(req), bv.ValidatePasswordPair("new_password", req.NewPassword, req.NewPasswordConfirm)...); len(errs) > 0 {
		return errs
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return translateRepoError(err, ErrUserNotFound, "get user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return fieldError("old_password", "Wrong password.", "password")
	}

	return s.setPassword(ctx, user, req.NewPassword)
}

func (s *userService) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return translateRepoError(err, ErrUserNotFound, "get user")
	}
	if user.IsVerified {
		return nil
	}
	user.IsVerified = true
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

func (s *userService) RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) error {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return errs
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.tokens.IssueResetToken(user)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	body := fmt.Sprintf("Click here to reset your password: %s", resetURL)
	if err := s.mailer.Send(ctx, user.Email, "Password Reset", body); err != nil {
		s.logger.Error("Failed to send password reset mail", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *userService) ConfirmPasswordReset(ctx context.Context, req *PasswordResetConfirmRequest) error {
	bv := s.validator.GetBusinessValidator()
	if errs := append(bv.Validate(req), bv.ValidatePasswordPair("new_password", req.NewPassword, req.NewPasswordConfirm)...); len(errs) > 0 {
		return errs
	}

	invalid := fieldError("token", "Invalid token.", "token")

	claims, err := s.tokens.Parse(req.Token, TokenReset)
	if err != nil {
		return invalid
	}
	userID, _ := claims.UserID()

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return invalid
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := VerifyResetFingerprint(claims, user); err != nil {
		return invalid
	}

	return s.setPassword(ctx, user, req.NewPassword)
}

func (s *userService) setPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.User().UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = string(hash)
	s.logger.Info("Password updated", "user_id", user.ID)
	return nil
}
