package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/email"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultResetTTL = 15 * time.Minute
	defaultJWTTTL   = 24 * time.Hour
)

type AuthUsecase struct {
	users         repository.UserRepository
	email         email.Sender
	jwtKey        []byte
	resetTTL      time.Duration
	jwtTTL        time.Duration
	resetLinkBase string
	bcryptCost    int
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, jwtKey []byte, resetLinkBase string) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		email:         emailSender,
		jwtKey:        jwtKey,
		resetTTL:      defaultResetTTL,
		jwtTTL:        defaultJWTTTL,
		resetLinkBase: strings.TrimRight(resetLinkBase, "/"),
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// AuthResult is what a successful signup or login hands back: the user and
// a bearer token for the JSON API.
type AuthResult struct {
	User  *domain.User
	Token string
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Signup validates the input, stores the user with a bcrypt hash and signs them in.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	first, last := strings.TrimSpace(input.FirstName), strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, domain.ErrNameMissing
	}
	addr := normalizeEmail(input.Email)
	if err := validateEmail(addr); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password, u.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, &domain.User{
		FirstName:    first,
		LastName:     last,
		Email:        addr,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u.authenticated(user)
}

// Login checks the credentials. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := checkPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return u.authenticated(user)
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrPasswordRequired
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := checkPassword(user.PasswordHash, oldPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword, u.bcryptCost)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestPasswordReset emails a single-use reset link. Unknown addresses are
// ignored so callers cannot probe which emails are registered.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	addr := normalizeEmail(emailAddr)
	user, err := u.users.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	raw := make([]byte, 32)
	if _, err = io.ReadFull(rand.Reader, raw); err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	tokenHash := hashToken(rawToken)
	expiresAt := time.Now().Add(u.resetTTL)
	if err = u.users.CreateResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := u.resetLinkBase + "/reset-password?token=" + url.QueryEscape(rawToken)
	msg, err := email.PasswordReset(user.Email, link, u.resetTTL, "password-reset/"+tokenHash)
	if err != nil {
		return err
	}
	if err = u.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword claims the token and sets the new password.
func (u *AuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return domain.ErrTokenInvalid
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	rt, err := u.users.ClaimResetToken(ctx, hashToken(rawToken))
	if err != nil {
		return domain.ErrTokenInvalid
	}

	hash, err := hashPassword(newPassword, u.bcryptCost)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, rt.UserID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (u *AuthUsecase) authenticated(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(u.jwtTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}
	return &AuthResult{User: user, Token: signed}, nil
}

func hashToken(raw string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}
