package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayushmansingh2512/AI-intervewer/internal/middleware"
	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	companyRepo *repository.CompanyRepo
	userRepo    *repository.UserRepo
	redis       *redis.Client
	jwt         *middleware.JWTAuth
	email       *EmailService
}

func NewAuthService(companyRepo *repository.CompanyRepo, userRepo *repository.UserRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, email *EmailService) *AuthService {
	return &AuthService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		redis:       redisClient,
		jwt:         jwt,
		email:       email,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) SignupCompany(ctx context.Context, req models.CompanySignupRequest) (*models.Company, error) {
	fieldErrors := make(map[string]string)

	if req.CompanyName == "" {
		fieldErrors["company_name"] = "Company name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	// Check uniqueness
	_, err := s.companyRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	company := &models.Company{
		Email:        req.Email,
		CompanyName:  req.CompanyName,
		PasswordHash: string(hash),
		IsVerified:   false,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, "company", company.Email); err != nil {
		return nil, err
	}

	return company, nil
}

func (s *AuthService) SignupUser(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	fieldErrors := make(map[string]string)

	if req.FullName == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, "user", user.Email); err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyCompanyOTP checks the code against Redis and marks the company
// verified. The code's lifetime is owned by the Redis TTL; there is no
// sweep over shared state.
func (s *AuthService) VerifyCompanyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.AuthTokens, error) {
	company, err := s.companyRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, &NotFoundError{Message: "Account not found"}
	}

	if err := s.consumeOTP(ctx, "company", req.Email, req.Code); err != nil {
		return nil, err
	}

	if err := s.companyRepo.MarkVerified(ctx, company.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(company.ID, company.Email, middleware.RoleCompany)
}

func (s *AuthService) VerifyUserOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, &NotFoundError{Message: "Account not found"}
	}

	if err := s.consumeOTP(ctx, "user", req.Email, req.Code); err != nil {
		return nil, err
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(user.ID, user.Email, middleware.RoleCandidate)
}

func (s *AuthService) LoginCompany(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	company, err := s.companyRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if !company.IsVerified {
		return nil, &ForbiddenError{Message: "Please verify your email before signing in."}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	return s.issueTokens(company.ID, company.Email, middleware.RoleCompany)
}

func (s *AuthService) LoginUser(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if !user.IsVerified {
		return nil, &ForbiddenError{Message: "Please verify your email before signing in."}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.issueTokens(user.ID, user.Email, middleware.RoleCandidate)
}

func (s *AuthService) ResendOTP(ctx context.Context, kind, email string) error {
	// Per-account resend rate limit
	rateLimitKey := fmt.Sprintf("otp_resend:%s:%s", kind, email)
	exists, _ := s.redis.Exists(ctx, rateLimitKey).Result()
	if exists > 0 {
		return &RateLimitError{Message: "Please wait 60 seconds before requesting another code"}
	}
	s.redis.Set(ctx, rateLimitKey, "1", 60*time.Second)

	return s.issueOTP(ctx, kind, email)
}

func (s *AuthService) issueOTP(ctx context.Context, kind, email string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}

	key := fmt.Sprintf("otp:%s:%s", kind, email)
	if err := s.redis.Set(ctx, key, code, otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	go s.email.SendOTPEmail(email, code)

	return nil
}

func (s *AuthService) consumeOTP(ctx context.Context, kind, email, code string) error {
	key := fmt.Sprintf("otp:%s:%s", kind, email)

	stored, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return &UnauthorizedError{Message: "OTP has expired or was never issued"}
	}
	if stored != code {
		return &UnauthorizedError{Message: "Invalid OTP"}
	}

	s.redis.Del(ctx, key)
	return nil
}

func (s *AuthService) issueTokens(id uuid.UUID, email, role string) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(id, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken: accessToken,
		ExpiresIn:   3600,
	}, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
