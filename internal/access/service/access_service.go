package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	"github.com/PepeePB/proyecto-asee/internal/access/dto"
	"github.com/PepeePB/proyecto-asee/internal/access/store"
	"github.com/PepeePB/proyecto-asee/internal/access/token"
	autherror "github.com/PepeePB/proyecto-asee/internal/errors"
	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

// AuthResult is the outcome of a session lifecycle operation. State is one
// of the constant.TokenState* values and drives the HTTP status and cookie
// behavior at the handler boundary.
type AuthResult struct {
	Token string
	State string
	User  *domain.User
}

// AccessService coordinates login, refresh and logout against the token
// codec and the session store. All of its side effects are confined to the
// store; it never writes to the database.
//
// A (user, token) pair moves NONE -> ISSUED -> {ROTATED | REVOKED |
// EXPIRED}. Rotation revokes the old token and issues a new one for the
// same user in the same logical operation.
type AccessService struct {
	repo  domain.UserRepository
	store store.SessionStore
	codec TokenCodec
	cfg   *config.Config
	log   zerolog.Logger
}

func NewAccessService(repo domain.UserRepository, sessions store.SessionStore, codec TokenCodec,
	cfg *config.Config, log zerolog.Logger) *AccessService {
	return &AccessService{
		repo:  repo,
		store: sessions,
		codec: codec,
		cfg:   cfg,
		log:   log,
	}
}

// Login authenticates a user by username or email and issues a credential
// bound to the requesting device. If the user already holds a valid
// session, the call degrades to an internal refresh of that session, so at
// most one valid-session pair per user can ever exist.
func (s *AccessService) Login(ctx context.Context, input dto.LoginInput) (*AuthResult, error) {
	user, err := s.resolveUser(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if !user.Verified {
		return nil, autherror.ErrUserNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	fp := token.Fingerprint{IPAddress: input.IPAddress, UserAgent: input.UserAgent}

	exists, err := s.store.Exists(ctx, store.ValidToken, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	if exists {
		// Second login for a user with a live session: rotate the stored
		// token instead of issuing a parallel one.
		return s.rotateCurrentSession(ctx, user, fp)
	}

	signed, err := s.issueSession(ctx, user, fp)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Str("ip", input.IPAddress).Msg("session created")

	return &AuthResult{Token: signed, State: constant.TokenStateCreated, User: user}, nil
}

// Refresh rotates the presented credential when its embedded fingerprint
// matches the current request and the valid-session record still points at
// it. Any mismatch degrades to logout semantics: the presented token is
// revoked, never renewed.
func (s *AccessService) Refresh(ctx context.Context, input dto.RefreshInput) (*AuthResult, error) {
	if input.Token == "" {
		return nil, autherror.ErrMissingToken
	}

	claims, err := s.codec.Decode(input.Token)
	if err != nil {
		return nil, err
	}

	current := token.Fingerprint{IPAddress: input.IPAddress, UserAgent: input.UserAgent}

	if !claims.Fingerprint().Matches(current) {
		s.log.Warn().Str("username", claims.Username()).Str("ip", input.IPAddress).
			Msg("refresh with mismatched fingerprint, revoking token")

		return s.Logout(ctx, input.Token)
	}

	stored, ok, err := s.store.Get(ctx, store.ValidToken, claims.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to read current session: %w", err)
	}

	if !ok || stored != input.Token {
		// Stale or replayed token: the session moved on without it.
		s.log.Warn().Str("username", claims.Username()).
			Msg("refresh with stale token, revoking")

		return s.Logout(ctx, input.Token)
	}

	user, err := s.repo.GetByUsername(ctx, claims.Username())
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	signed, err := s.rotate(ctx, user, input.Token, claims, current)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: signed, State: constant.TokenStateRenewed, User: user}, nil
}

// Logout revokes the presented credential. A token without a valid-session
// record fails with ErrTokenNotOwned, including on a repeated logout of an
// already revoked token.
func (s *AccessService) Logout(ctx context.Context, tokenString string) (*AuthResult, error) {
	if tokenString == "" {
		return nil, autherror.ErrTokenNotOwned
	}

	username, ok, err := s.store.Get(ctx, store.ValidToken, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if !ok {
		return nil, autherror.ErrTokenNotOwned
	}

	if err := s.revoke(ctx, tokenString, username); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("session revoked")

	return &AuthResult{Token: tokenString, State: constant.TokenStateDeleted}, nil
}

// ActiveSessions lists the live sessions for observability. It sweeps the
// valid-token namespace, keeping only the user-keyed half of each pair.
func (s *AccessService) ActiveSessions(ctx context.Context) ([]dto.SessionInfo, error) {
	keys, err := s.store.ScanPrefix(ctx, string(store.ValidToken)+"*")
	if err != nil {
		return nil, err
	}

	sessions := make([]dto.SessionInfo, 0, len(keys)/2)

	for _, key := range keys {
		suffix := strings.TrimPrefix(key, string(store.ValidToken))
		if strings.Contains(suffix, ".") {
			// Token-keyed half of the pair; the user-keyed one carries it.
			continue
		}

		stored, ok, err := s.store.Get(ctx, store.ValidToken, suffix)
		if err != nil || !ok {
			continue
		}

		claims, err := s.codec.Decode(stored)
		if err != nil {
			continue
		}

		info := dto.SessionInfo{
			Username:  claims.Username(),
			IPAddress: claims.IP,
			UserAgent: claims.WebAgent,
		}
		if claims.ExpiresAt != nil {
			info.ExpiresAt = claims.ExpiresAt.Time
		}

		sessions = append(sessions, info)
	}

	return sessions, nil
}

// ForceLogout revokes the current session of a user regardless of who
// presents it. Admin operation.
func (s *AccessService) ForceLogout(ctx context.Context, username string) (*AuthResult, error) {
	stored, ok, err := s.store.Get(ctx, store.ValidToken, username)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if !ok {
		return nil, autherror.ErrTokenNotOwned
	}

	return s.Logout(ctx, stored)
}

func (s *AccessService) resolveUser(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.repo.GetByEmail(ctx, identifier)
	}

	return s.repo.GetByUsername(ctx, identifier)
}

// issueSession signs a fresh token and writes both halves of the
// valid-session pair, TTL'd to the token lifetime plus the grace window.
func (s *AccessService) issueSession(ctx context.Context, user *domain.User, fp token.Fingerprint) (string, error) {
	signed, err := s.codec.Issue(user, fp)
	if err != nil {
		return "", err
	}

	ttl := s.codec.Lifetime() + s.cfg.GraceWindow

	if err := s.store.Put(ctx, store.ValidToken, signed, user.Username, ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	if err := s.store.Put(ctx, store.ValidToken, user.Username, signed, ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return signed, nil
}

// rotate revokes oldToken and issues a replacement for the same user in one
// logical step. The blacklist entry is written before the valid-session
// pair is touched, so no interleaved read can see the old token pass
// validation once rotation starts.
func (s *AccessService) rotate(ctx context.Context, user *domain.User, oldToken string,
	oldClaims *token.Claims, fp token.Fingerprint) (string, error) {
	blacklistTTL := s.cfg.GraceWindow
	if oldClaims != nil {
		blacklistTTL += oldClaims.RemainingLifetime(time.Now())
	}

	if err := s.store.Put(ctx, store.Blacklist, oldToken, oldToken, blacklistTTL); err != nil {
		return "", fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.store.Delete(ctx, store.ValidToken, oldToken, user.Username); err != nil {
		return "", fmt.Errorf("failed to clear session: %w", err)
	}

	signed, err := s.issueSession(ctx, user, fp)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Msg("session rotated")

	return signed, nil
}

// rotateCurrentSession is the login path for a user that already holds a
// session: the stored token is rotated using the fingerprint of the login
// request, without the fingerprint check an external refresh requires.
func (s *AccessService) rotateCurrentSession(ctx context.Context, user *domain.User,
	fp token.Fingerprint) (*AuthResult, error) {
	stored, ok, err := s.store.Get(ctx, store.ValidToken, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to read current session: %w", err)
	}

	if !ok {
		// The session expired between the existence check and now; issue
		// a fresh one.
		signed, err := s.issueSession(ctx, user, fp)
		if err != nil {
			return nil, err
		}

		return &AuthResult{Token: signed, State: constant.TokenStateCreated, User: user}, nil
	}

	// The stored token may be arbitrarily stale; a failed decode only
	// shortens the blacklist TTL to the grace window.
	oldClaims, _ := s.codec.Decode(stored)

	signed, err := s.rotate(ctx, user, stored, oldClaims, fp)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: signed, State: constant.TokenStateRenewed, User: user}, nil
}

// revoke moves a token out of the valid-session namespace and into the
// blacklist for the remainder of its lifetime plus the grace window.
func (s *AccessService) revoke(ctx context.Context, tokenString, username string) error {
	blacklistTTL := s.cfg.GraceWindow
	if claims, err := s.codec.Decode(tokenString); err == nil {
		blacklistTTL += claims.RemainingLifetime(time.Now())
	}

	if err := s.store.Put(ctx, store.Blacklist, tokenString, tokenString, blacklistTTL); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.store.Delete(ctx, store.ValidToken, tokenString, username); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
