package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

type fakeUserService struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (f *fakeUserService) Create(ctx context.Context, sess models.Session, principalID string, req models.CreateUserRequest) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &models.User{
		ID:          uuid.New(),
		TenantID:    sess.TenantID,
		PrincipalID: principalID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Status:      models.UserStatusActive,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserService) List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.User], error) {
	if f.err != nil {
		return repository.Page[*models.User]{}, f.err
	}
	page := repository.Page[*models.User]{Items: []*models.User{}}
	for _, u := range f.users {
		page.Items = append(page.Items, u)
	}
	return page, nil
}

func (f *fakeUserService) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.TenantID != sess.TenantID {
		return nil, repository.ErrPermission
	}
	return u, nil
}

func (f *fakeUserService) Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	u, err := f.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	return u, nil
}

func (f *fakeUserService) SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	u, err := f.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	u.Status = status
	return u, nil
}

func adminSession(tenant uuid.UUID) models.Session {
	return models.Session{
		State:    models.SessionResolved,
		UserID:   uuid.New(),
		Role:     models.RoleAdmin,
		TenantID: tenant,
	}
}

func userRouter(h *UserHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.List)
	r.Post("/users", h.Create)
	r.Get("/users/{id}", h.Get)
	r.Patch("/users/{id}", h.Update)
	r.Put("/users/{id}/status", h.SetStatus)
	return r
}

func doRequest(t *testing.T, router chi.Router, sess models.Session, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserHandlerCreate(t *testing.T) {
	tenant := uuid.New()
	svc := &fakeUserService{users: map[uuid.UUID]*models.User{}}
	router := userRouter(NewUserHandler(svc))

	rec := doRequest(t, router, adminSession(tenant), http.MethodPost, "/users", map[string]any{
		"principal_id":     "auth0|new",
		"email":            "new@school.example",
		"display_name":     "New Teacher",
		"role":             "teacher",
		"password":         "correct horse",
		"confirm_password": "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201; body=%s", rec.Code, rec.Body.String())
	}

	var created models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.TenantID != tenant || created.Role != models.RoleTeacher {
		t.Fatalf("unexpected user: %+v", created)
	}
}

func TestUserHandlerCreateValidationFailure(t *testing.T) {
	svc := &fakeUserService{
		users: map[uuid.UUID]*models.User{},
		err: repository.NewValidationError(
			repository.FieldError{Field: "ConfirmPassword", Message: "failed eqfield validation"},
		),
	}
	router := userRouter(NewUserHandler(svc))

	rec := doRequest(t, router, adminSession(uuid.New()), http.MethodPost, "/users", map[string]any{
		"email": "new@school.example",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rec.Code)
	}

	var body struct {
		Fields []repository.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Fields) != 1 || body.Fields[0].Field != "ConfirmPassword" {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestUserHandlerGetStatusMapping(t *testing.T) {
	tenant := uuid.New()
	known := &models.User{ID: uuid.New(), TenantID: tenant}
	foreign := &models.User{ID: uuid.New(), TenantID: uuid.New()}
	svc := &fakeUserService{users: map[uuid.UUID]*models.User{known.ID: known, foreign.ID: foreign}}
	router := userRouter(NewUserHandler(svc))
	sess := adminSession(tenant)

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"own tenant", "/users/" + known.ID.String(), http.StatusOK},
		{"missing entity", "/users/" + uuid.NewString(), http.StatusNotFound},
		{"cross-tenant is forbidden, not hidden", "/users/" + foreign.ID.String(), http.StatusForbidden},
		{"malformed id", "/users/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, sess, http.MethodGet, tt.target, nil)
			if rec.Code != tt.want {
				t.Fatalf("status=%d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUserHandlerTransientFault(t *testing.T) {
	svc := &fakeUserService{users: map[uuid.UUID]*models.User{}, err: repository.ErrTransient}
	router := userRouter(NewUserHandler(svc))

	rec := doRequest(t, router, adminSession(uuid.New()), http.MethodGet, "/users", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rec.Code)
	}
}

func TestParseListOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/users?search=jordan&limit=10&role=teacher&ignored=x&created_from=2026-01-01T00:00:00Z", nil)

	opts := parseListOptions(req, userFilters)
	if opts.Search != "jordan" || opts.Limit != 10 {
		t.Fatalf("unexpected opts: %+v", opts)
	}
	if opts.Filters["role"] != "teacher" {
		t.Fatalf("role filter not parsed: %+v", opts.Filters)
	}
	if _, ok := opts.Filters["ignored"]; ok {
		t.Fatal("unknown parameters must not become filters")
	}
	if opts.CreatedFrom == nil || opts.CreatedFrom.Year() != 2026 {
		t.Fatalf("created_from not parsed: %+v", opts.CreatedFrom)
	}
}
