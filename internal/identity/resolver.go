package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campushq/campus-records/internal/cache"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// ProfileLookup finds the user record backing an auth-provider subject.
type ProfileLookup interface {
	GetByPrincipal(ctx context.Context, principalID string) (*models.User, error)
}

// AuditSink records standalone audit entries (failed logins).
type AuditSink interface {
	Record(ctx context.Context, tenantID, actorID uuid.UUID, action, entityType, entityID string, details map[string]any) error
}

// TenantResolver maps a profile's tenant onto the effective tenant. A
// single-org deployment configures a default tenant id; multi-org
// deployments rely on the profile alone.
type TenantResolver struct {
	Default uuid.UUID
}

// Resolve returns the profile tenant, or the configured default when the
// profile carries none.
func (t TenantResolver) Resolve(profileTenant uuid.UUID) uuid.UUID {
	if profileTenant != uuid.Nil {
		return profileTenant
	}
	return t.Default
}

// Resolver turns auth-provider events into sessions. Resolution is
// availability-over-precision: a missing profile or a lookup fault both
// degrade to a minimally privileged student session rather than failing
// the sign-in.
type Resolver struct {
	users    ProfileLookup
	audit    AuditSink
	cache    cache.Cache
	tenants  TenantResolver
	cacheTTL time.Duration
}

// NewResolver creates a resolver. cache may be a memory cache when redis
// is not configured.
func NewResolver(users ProfileLookup, audit AuditSink, c cache.Cache, tenants TenantResolver, cacheTTL time.Duration) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Resolver{users: users, audit: audit, cache: c, tenants: tenants, cacheTTL: cacheTTL}
}

// Resolve maps one auth event to a session. It never returns an error:
// RecoverableProfileError conditions are absorbed here by design.
func (r *Resolver) Resolve(ctx context.Context, ev models.AuthEvent) models.Session {
	if ev.Type == models.AuthSignOut || ev.PrincipalID == "" {
		return models.Session{State: models.SessionUnauthenticated}
	}

	profile, err := r.lookupProfile(ctx, ev.PrincipalID)
	switch {
	case err == nil:
		return models.Session{
			State:       models.SessionResolved,
			PrincipalID: ev.PrincipalID,
			UserID:      profile.ID,
			Role:        profile.Role,
			TenantID:    r.tenants.Resolve(profile.TenantID),
			Profile: models.SessionProfile{
				DisplayName: profile.DisplayName,
				Email:       profile.Email,
				Status:      profile.Status,
			},
		}
	case errors.Is(err, repository.ErrNotFound):
		// First login: no user record yet. Usable session, student role.
		log.Info().Str("principal_id", ev.PrincipalID).Msg("No profile for principal, using fallback role")
	default:
		// Lookup fault. Same fallback, but the failure is logged and
		// recorded for audit.
		log.Warn().Err(err).Str("principal_id", ev.PrincipalID).Msg("Profile lookup failed, using fallback role")
		if auditErr := r.audit.Record(ctx, r.tenants.Default, uuid.Nil, models.ActionLoginFailed, "user", ev.PrincipalID, map[string]any{
			"reason": err.Error(),
		}); auditErr != nil {
			log.Warn().Err(auditErr).Msg("Failed to record login failure")
		}
	}

	return models.Session{
		State:       models.SessionResolved,
		PrincipalID: ev.PrincipalID,
		Role:        models.RoleStudent,
		TenantID:    r.tenants.Default,
		Profile: models.SessionProfile{
			DisplayName: ev.DisplayName,
			Email:       ev.Email,
			Status:      models.UserStatusActive,
		},
		Fallback: true,
	}
}

// Subscribe consumes the auth provider's change stream, re-resolving on
// every event and handing the resulting session to fn. Returns when the
// channel closes or ctx is done.
func (r *Resolver) Subscribe(ctx context.Context, events <-chan models.AuthEvent, fn func(models.Session)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fn(r.Resolve(ctx, ev))
		}
	}
}

// Invalidate drops the cached profile for a principal. Called whenever the
// backing user record changes so the next resolution sees fresh role and
// status.
func (r *Resolver) Invalidate(ctx context.Context, principalID string) {
	if err := r.cache.Delete(ctx, profileCacheKey(principalID)); err != nil {
		log.Warn().Err(err).Str("principal_id", principalID).Msg("Failed to invalidate profile cache")
	}
}

func (r *Resolver) lookupProfile(ctx context.Context, principalID string) (*models.User, error) {
	key := profileCacheKey(principalID)
	if data, err := r.cache.Get(ctx, key); err == nil {
		var user models.User
		if err := json.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
		// corrupt entry; fall through to the repository
		_ = r.cache.Delete(ctx, key)
	}

	user, err := r.users.GetByPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil {
			log.Debug().Err(err).Msg("Failed to cache profile")
		}
	}
	return user, nil
}

func profileCacheKey(principalID string) string {
	return cache.Key("profile", principalID)
}
