package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"
	"propshare-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("authService.Signup", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", "", domain.NewValidationError("email", "is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, "", "", domain.NewValidationError("name", "is required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.NewValidationError("password", "must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", domain.NewConflictError("an account with this email already exists")
	} else if domain.KindOf(err) != domain.ErrorKindNotFound {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", domain.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		PhoneNumber:  strings.TrimSpace(phone),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "email", email)
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	logger.EnterMethod("authService.Login", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// The same error for unknown email and wrong password keeps login
		// from leaking which accounts exist.
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return "", "", domain.NewAuthorizationError("invalid email or password")
		}
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", domain.NewAuthorizationError("invalid email or password")
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return "", "", err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", domain.NewAuthorizationError("refresh token is not valid")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.NewAuthorizationError("refresh token is not valid")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return "", "", domain.NewAuthorizationError("refresh token is not valid")
		}
		return "", "", err
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", domain.NewInternalError(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", domain.NewInternalError(err)
	}
	return access, refresh, nil
}
