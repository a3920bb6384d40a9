package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/confirmcode"
	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/email"
	"github.com/ErlanBelekov/yamdb-auth/internal/metrics"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
)

const defaultCodeTTL = 300 * time.Second

type codeGenerator interface {
	Generate() (string, error)
	Valid(code string) bool
}

type tokenMinter interface {
	Mint(user *domain.User) (string, error)
}

type issueLimiter interface {
	Reserve(key string) (cancel func(), ok bool)
}

type attemptLimiter interface {
	Allow(key string) bool
}

type AuthUsecase struct {
	users   repository.UserRepository
	codes   repository.CodeStore
	email   email.Sender
	tokens  tokenMinter
	gen     codeGenerator
	limiter issueLimiter
	verify  attemptLimiter
	codeTTL time.Duration
	logger  *slog.Logger
}

type AuthOption func(*AuthUsecase)

func WithCodeTTL(ttl time.Duration) AuthOption {
	return func(u *AuthUsecase) {
		u.codeTTL = ttl
	}
}

func WithCodeGenerator(gen codeGenerator) AuthOption {
	return func(u *AuthUsecase) {
		u.gen = gen
	}
}

// WithIssueLimiter throttles RequestCode per email address. Only issuances
// that were stored and delivered are charged.
func WithIssueLimiter(l issueLimiter) AuthOption {
	return func(u *AuthUsecase) {
		u.limiter = l
	}
}

// WithVerifyLimiter caps redemption attempts per email address. A wrong code
// leaves the pending one in place, so this is what bounds guessing.
func WithVerifyLimiter(l attemptLimiter) AuthOption {
	return func(u *AuthUsecase) {
		u.verify = l
	}
}

func WithLogger(logger *slog.Logger) AuthOption {
	return func(u *AuthUsecase) {
		u.logger = logger
	}
}

func NewAuthUsecase(users repository.UserRepository, codes repository.CodeStore, emailSender email.Sender, tokens tokenMinter, opts ...AuthOption) *AuthUsecase {
	u := &AuthUsecase{
		users:   users,
		codes:   codes,
		email:   emailSender,
		tokens:  tokens,
		gen:     confirmcode.NewGenerator(confirmcode.DefaultLength),
		codeTTL: defaultCodeTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = u.logger.With("component", "auth_usecase")
	return u
}

// CodeTTL is how long an issued code stays redeemable.
func (u *AuthUsecase) CodeTTL() time.Duration {
	return u.codeTTL
}

// RequestCode generates a confirmation code for emailAddr, stores it
// (replacing any outstanding one) and emails it. The code is stored before
// the email is sent and is not rolled back if delivery fails, so a retry
// simply issues a fresh code. A failed attempt does not count towards the
// re-issue limit.
func (u *AuthUsecase) RequestCode(ctx context.Context, emailAddr string) (err error) {
	identity, err := normalizeIdentity(emailAddr)
	if err != nil {
		return err
	}

	if u.limiter != nil {
		refund, ok := u.limiter.Reserve(identity)
		if !ok {
			metrics.CodeRequestsThrottledTotal.Inc()
			return domain.ErrTooManyRequests
		}
		defer func() {
			if err != nil {
				refund()
			}
		}()
	}

	code, err := u.gen.Generate()
	if err != nil {
		return err
	}

	if err = u.codes.Set(ctx, identity, code, u.codeTTL); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	metrics.CodesIssuedTotal.Inc()

	subject := "Your confirmation code"
	body := fmt.Sprintf(
		"Your confirmation code: %s\nIt is valid for %d minutes.\n",
		code, int(u.codeTTL.Minutes()),
	)
	if err = u.email.Send(ctx, identity, subject, body); err != nil {
		metrics.CodeDeliveryFailuresTotal.Inc()
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, err)
	}

	u.logger.InfoContext(ctx, "confirmation code issued", "ttl", u.codeTTL)
	return nil
}

// VerifyCode redeems code for emailAddr and returns the user, creating it on
// first login. Absent, expired and mismatching codes all yield
// domain.ErrInvalidOrExpiredCode. A mismatch does not consume the pending code.
func (u *AuthUsecase) VerifyCode(ctx context.Context, emailAddr, code string) (*domain.User, error) {
	identity, err := normalizeIdentity(emailAddr)
	if err != nil {
		return nil, err
	}

	if u.verify != nil && !u.verify.Allow(identity) {
		metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomeThrottled).Inc()
		return nil, domain.ErrTooManyRequests
	}

	if !u.gen.Valid(code) {
		metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, domain.ErrInvalidOrExpiredCode
	}

	ok, err := u.codes.Consume(ctx, identity, code)
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, domain.ErrInvalidOrExpiredCode
	}

	user, err := u.users.FindOrCreate(ctx, identity)
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomePersistFail).Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrIdentityPersistence, err)
	}

	metrics.CodeVerificationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	u.logger.InfoContext(ctx, "confirmation code redeemed", "user_id", user.ID)
	return user, nil
}

// IssueToken redeems the code and mints an access token for the resolved user.
func (u *AuthUsecase) IssueToken(ctx context.Context, emailAddr, code string) (string, error) {
	user, err := u.VerifyCode(ctx, emailAddr, code)
	if err != nil {
		return "", err
	}

	signed, err := u.tokens.Mint(user)
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return signed, nil
}
