package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/cache"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

type fakeLookup struct {
	users map[string]*models.User
	err   error
	calls int
}

func (f *fakeLookup) GetByPrincipal(ctx context.Context, principalID string) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[principalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Record(ctx context.Context, tenantID, actorID uuid.UUID, action, entityType, entityID string, details map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func newTestResolver(users *fakeLookup, audit *fakeAudit, defaultTenant uuid.UUID) (*Resolver, *cache.MemoryCache) {
	mc := cache.NewMemoryCache()
	return NewResolver(users, audit, mc, TenantResolver{Default: defaultTenant}, time.Minute), mc
}

func TestResolveKnownProfile(t *testing.T) {
	tenant := uuid.New()
	user := &models.User{
		ID:          uuid.New(),
		TenantID:    tenant,
		PrincipalID: "auth0|abc",
		Email:       "counselor@school.example",
		DisplayName: "Pat Counselor",
		Role:        models.RoleCounselor,
		Status:      models.UserStatusActive,
	}
	users := &fakeLookup{users: map[string]*models.User{"auth0|abc": user}}
	audit := &fakeAudit{}
	r, mc := newTestResolver(users, audit, uuid.New())
	defer mc.Close()

	sess := r.Resolve(context.Background(), models.AuthEvent{Type: models.AuthSignIn, PrincipalID: "auth0|abc"})

	if sess.State != models.SessionResolved {
		t.Fatalf("state=%v, want resolved", sess.State)
	}
	if sess.Role != models.RoleCounselor {
		t.Fatalf("role=%v, want counselor", sess.Role)
	}
	if sess.TenantID != tenant {
		t.Fatal("tenant should come from the profile, not the default")
	}
	if sess.Fallback {
		t.Fatal("resolved profile must not be a fallback session")
	}
	if len(audit.actions) != 0 {
		t.Fatalf("unexpected audit entries: %v", audit.actions)
	}
}

func TestResolveMissingProfileFallsBack(t *testing.T) {
	defaultTenant := uuid.New()
	users := &fakeLookup{users: map[string]*models.User{}}
	audit := &fakeAudit{}
	r, mc := newTestResolver(users, audit, defaultTenant)
	defer mc.Close()

	sess := r.Resolve(context.Background(), models.AuthEvent{
		Type:        models.AuthSignIn,
		PrincipalID: "auth0|new",
		DisplayName: "New Student",
		Email:       "new@school.example",
	})

	if sess.State != models.SessionResolved || !sess.Fallback {
		t.Fatal("missing profile should still yield a usable fallback session")
	}
	if sess.Role != models.RoleStudent {
		t.Fatalf("fallback role=%v, want student", sess.Role)
	}
	if sess.TenantID != defaultTenant {
		t.Fatal("fallback session should land in the default tenant")
	}
	// missing profile is an expected first-login state, not a failure
	if len(audit.actions) != 0 {
		t.Fatalf("unexpected audit entries: %v", audit.actions)
	}
}

func TestResolveLookupFaultFallsBackAndAudits(t *testing.T) {
	users := &fakeLookup{err: errors.New("connection refused")}
	audit := &fakeAudit{}
	r, mc := newTestResolver(users, audit, uuid.New())
	defer mc.Close()

	sess := r.Resolve(context.Background(), models.AuthEvent{Type: models.AuthSignIn, PrincipalID: "auth0|abc"})

	if sess.State != models.SessionResolved || !sess.Fallback || sess.Role != models.RoleStudent {
		t.Fatal("lookup fault should degrade to a fallback student session")
	}
	if len(audit.actions) != 1 || audit.actions[0] != models.ActionLoginFailed {
		t.Fatalf("expected one login_failed entry, got %v", audit.actions)
	}
}

func TestResolveSignOut(t *testing.T) {
	users := &fakeLookup{}
	r, mc := newTestResolver(users, &fakeAudit{}, uuid.New())
	defer mc.Close()

	sess := r.Resolve(context.Background(), models.AuthEvent{Type: models.AuthSignOut})
	if sess.State != models.SessionUnauthenticated {
		t.Fatalf("state=%v, want unauthenticated", sess.State)
	}
	if users.calls != 0 {
		t.Fatal("sign-out must not hit the profile lookup")
	}
}

func TestResolveCachesProfileUntilInvalidated(t *testing.T) {
	user := &models.User{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		PrincipalID: "auth0|abc",
		Role:        models.RoleTeacher,
		Status:      models.UserStatusActive,
	}
	users := &fakeLookup{users: map[string]*models.User{"auth0|abc": user}}
	r, mc := newTestResolver(users, &fakeAudit{}, uuid.New())
	defer mc.Close()

	ev := models.AuthEvent{Type: models.AuthSignIn, PrincipalID: "auth0|abc"}
	ctx := context.Background()

	r.Resolve(ctx, ev)
	r.Resolve(ctx, ev)
	if users.calls != 1 {
		t.Fatalf("second resolve should hit the cache, lookup calls=%d", users.calls)
	}

	r.Invalidate(ctx, "auth0|abc")
	r.Resolve(ctx, ev)
	if users.calls != 2 {
		t.Fatalf("invalidation should force a fresh lookup, lookup calls=%d", users.calls)
	}
}

func TestSubscribe(t *testing.T) {
	users := &fakeLookup{users: map[string]*models.User{}}
	r, mc := newTestResolver(users, &fakeAudit{}, uuid.New())
	defer mc.Close()

	events := make(chan models.AuthEvent, 2)
	events <- models.AuthEvent{Type: models.AuthSignIn, PrincipalID: "auth0|a"}
	events <- models.AuthEvent{Type: models.AuthSignOut}
	close(events)

	var seen []models.SessionState
	r.Subscribe(context.Background(), events, func(s models.Session) {
		seen = append(seen, s.State)
	})

	if len(seen) != 2 || seen[0] != models.SessionResolved || seen[1] != models.SessionUnauthenticated {
		t.Fatalf("unexpected session states: %v", seen)
	}
}
