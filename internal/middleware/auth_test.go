package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/models"
)

const testSecret = "test-signing-secret"

type fakeResolver struct {
	sessions map[string]models.Session
}

func (f *fakeResolver) Resolve(ctx context.Context, ev models.AuthEvent) models.Session {
	if sess, ok := f.sessions[ev.PrincipalID]; ok {
		return sess
	}
	return models.Session{State: models.SessionUnauthenticated}
}

func signToken(t *testing.T, principalID string) string {
	t.Helper()
	claims := models.JWTClaims{
		PrincipalID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func echoSession(t *testing.T, got *models.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		if !ok {
			t.Fatal("no session on request context")
		}
		*got = sess
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	resolved := models.Session{
		State:    models.SessionResolved,
		UserID:   uuid.New(),
		Role:     models.RoleTeacher,
		TenantID: uuid.New(),
	}
	resolver := &fakeResolver{sessions: map[string]models.Session{"auth0|abc": resolved}}

	var got models.Session
	handler := Authenticate(testSecret, resolver)(echoSession(t, &got))

	t.Run("valid token resolves a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "auth0|abc"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d, want 200", rec.Code)
		}
		if got.Role != models.RoleTeacher {
			t.Fatalf("session role=%v, want teacher", got.Role)
		}
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d, want 401", rec.Code)
		}
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d, want 401", rec.Code)
		}
	})

	t.Run("token for unknown principal is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "auth0|stranger"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d, want 401", rec.Code)
		}
	})
}

func TestRequireEntityKind(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireEntityKind("student_note")(next)

	serve := func(sess models.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	counselor := models.Session{State: models.SessionResolved, Role: models.RoleCounselor}
	if code := serve(counselor); code != http.StatusOK {
		t.Fatalf("counselor status=%d, want 200", code)
	}

	specialist := models.Session{State: models.SessionResolved, Role: models.RoleSpecialist}
	if code := serve(specialist); code != http.StatusOK {
		t.Fatalf("specialist status=%d, want 200", code)
	}

	student := models.Session{State: models.SessionResolved, Role: models.RoleStudent}
	if code := serve(student); code != http.StatusForbidden {
		t.Fatalf("student status=%d, want 403", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(models.RoleAdmin)(next)

	serve := func(sess models.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	admin := models.Session{State: models.SessionResolved, Role: models.RoleAdmin}
	if code := serve(admin); code != http.StatusOK {
		t.Fatalf("admin status=%d, want 200", code)
	}

	teacher := models.Session{State: models.SessionResolved, Role: models.RoleTeacher}
	if code := serve(teacher); code != http.StatusForbidden {
		t.Fatalf("teacher status=%d, want 403", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d, want 401", rec.Code)
	}
}
