package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/example/storefront/internal/domain/session"
	"github.com/google/uuid"
)

// Sign-in and sign-up failures are classified into these sentinels so the
// rest of the system never sees provider-specific error text.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUnavailable        = errors.New("authentication service unavailable")
)

// Provider authenticates users and hands back the identity the session
// container stores.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (session.UserInfo, error)
	SignUp(ctx context.Context, email, password, fullName string) (session.UserInfo, error)
}

// FriendlyMessage maps a classified failure to the message shown to users.
// Unrecognized errors get a generic message rather than leaking internals.
func FriendlyMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email."
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists."
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 8 characters."
	case errors.Is(err, ErrUnavailable):
		return "Sign-in is temporarily unavailable. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

type account struct {
	id           string
	email        string
	fullName     string
	passwordHash string
}

// MemoryProvider is an in-process Provider backed by bcrypt hashes. It
// serves local development and tests; production deployments put a real
// identity backend behind the same interface.
type MemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]account // keyed by normalized email
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]account)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *MemoryProvider) SignUp(ctx context.Context, email, password, fullName string) (session.UserInfo, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return session.UserInfo{}, err
	}

	key := normalizeEmail(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[key]; exists {
		return session.UserInfo{}, ErrEmailInUse
	}

	acct := account{
		id:           uuid.New().String(),
		email:        key,
		fullName:     fullName,
		passwordHash: hash,
	}
	p.accounts[key] = acct

	return session.UserInfo{UID: acct.id, Email: acct.email, FullName: acct.fullName}, nil
}

func (p *MemoryProvider) SignIn(ctx context.Context, email, password string) (session.UserInfo, error) {
	p.mu.RLock()
	acct, exists := p.accounts[normalizeEmail(email)]
	p.mu.RUnlock()

	if !exists {
		return session.UserInfo{}, ErrUserNotFound
	}
	if !CheckPassword(password, acct.passwordHash) {
		return session.UserInfo{}, ErrInvalidCredentials
	}

	return session.UserInfo{UID: acct.id, Email: acct.email, FullName: acct.fullName}, nil
}
