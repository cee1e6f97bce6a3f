package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventflow/internal/auth"
	"eventflow/internal/auth/oauth"
	"eventflow/internal/model"
	"eventflow/internal/repository"
)

const verificationTokenTTL = 24 * time.Hour

// Profile is the service-level DTO returned for the authenticated user.
type Profile struct {
	User         model.User          `json:"user"`
	Accounts     []model.Account     `json:"accounts"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

// AuthService defines the use cases for registration, login and account
// linking.
type AuthService interface {
	// Register creates an email/password user and issues a verification
	// token. No mail is sent; the token is returned to the caller.
	Register(ctx context.Context, email, name, password string) (*model.User, *model.VerificationToken, error)

	// Login verifies email/password credentials and mints a session token.
	Login(ctx context.Context, email, password string) (string, error)

	// VerifyEmail consumes a verification token and stamps the user verified.
	VerifyEmail(ctx context.Context, token string) error

	// CompleteOAuth finishes a provider round-trip: it signs in, signs up or
	// links depending on the existing rows and the intent, and mints a
	// session token for the resulting user.
	CompleteOAuth(ctx context.Context, provider string, usr oauth.User, intent oauth.Intent) (string, error)

	// Me returns the user's profile with linked accounts and the current
	// subscription, if any.
	Me(ctx context.Context, userID string) (*Profile, error)

	// UnlinkAccount removes a linked provider account, refusing when the
	// user would be left without a way to sign in.
	UnlinkAccount(ctx context.Context, userID, provider string) error
}

// authService is a concrete implementation of AuthService.
type authService struct {
	users     repository.UserRepository
	accounts  repository.AccountRepository
	tokens    repository.VerificationTokenRepository
	subs      repository.SubscriptionRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	accounts repository.AccountRepository,
	tokens repository.VerificationTokenRepository,
	subs repository.SubscriptionRepository,
	jwtSecret []byte,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		users:     users,
		accounts:  accounts,
		tokens:    tokens,
		subs:      subs,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, email, name, password string) (*model.User, *model.VerificationToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	vt := &model.VerificationToken{
		Token:     uuid.New().String(),
		UserID:    stored.ID,
		ExpiresAt: time.Now().UTC().Add(verificationTokenTTL),
	}
	if err := s.tokens.Create(ctx, vt); err != nil {
		return nil, nil, fmt.Errorf("create verification token: %w", err)
	}

	return stored, vt, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.HasPassword() || !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.tokens.Find(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: verification token", ErrNotFound)
		}
		return err
	}
	if vt.ExpiresAt.Before(time.Now()) {
		return fmt.Errorf("%w: verification token expired", ErrValidation)
	}

	if err := s.users.SetEmailVerified(ctx, vt.UserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return s.tokens.Delete(ctx, token)
}

func (s *authService) CompleteOAuth(ctx context.Context, provider string, usr oauth.User, intent oauth.Intent) (string, error) {
	if intent.LinkUserID != "" {
		return s.linkAccount(ctx, provider, usr, intent.LinkUserID)
	}

	// Returning identity: sign in the owner of the linked account.
	acct, err := s.accounts.FindByProviderAccount(ctx, provider, usr.ID)
	if err == nil {
		return auth.GenerateToken(acct.UserID, s.jwtSecret, s.tokenTTL)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// First visit with this identity: attach to an existing user with the
	// same verified email, or create a fresh user.
	email := usr.VerifiedEmail()
	if email == "" {
		return "", fmt.Errorf("%w: provider did not supply a verified email", ErrValidation)
	}
	email = strings.ToLower(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		user, err = s.createOAuthUser(ctx, email, usr)
		if err != nil {
			return "", err
		}
	}

	if _, err := s.createLink(ctx, user.ID, provider, usr.ID); err != nil {
		return "", err
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
}

func (s *authService) linkAccount(ctx context.Context, provider string, usr oauth.User, linkUserID string) (string, error) {
	acct, err := s.accounts.FindByProviderAccount(ctx, provider, usr.ID)
	if err == nil {
		if acct.UserID != linkUserID {
			return "", ErrAccountLinked
		}
		// Already linked to this user; nothing to do.
		return auth.GenerateToken(linkUserID, s.jwtSecret, s.tokenTTL)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	if _, err := s.createLink(ctx, linkUserID, provider, usr.ID); err != nil {
		return "", err
	}
	return auth.GenerateToken(linkUserID, s.jwtSecret, s.tokenTTL)
}

func (s *authService) createOAuthUser(ctx context.Context, email string, usr oauth.User) (*model.User, error) {
	now := time.Now().UTC()
	user := &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		Name:            usr.Name,
		Image:           usr.Picture,
		Role:            model.RoleUser,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *authService) createLink(ctx context.Context, userID, provider, providerAccountID string) (*model.Account, error) {
	acct := &model.Account{
		ID:                uuid.New().String(),
		UserID:            userID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
		CreatedAt:         time.Now().UTC(),
	}
	stored, err := s.accounts.Create(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("create account link: %w", err)
	}
	return stored, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: *user, Accounts: accounts}

	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	} else {
		profile.Subscription = sub
	}

	return profile, nil
}

func (s *authService) UnlinkAccount(ctx context.Context, userID, provider string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	acct, err := s.accounts.FindByUserProvider(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: linked account", ErrNotFound)
		}
		return err
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	// The user must keep at least one way to sign in.
	remaining := len(accounts) - 1
	if user.HasPassword() {
		remaining++
	}
	if remaining < 1 {
		return ErrLastAuthMethod
	}

	return s.accounts.Delete(ctx, acct.ID)
}
