package access

import (
	"testing"

	"github.com/campushq/campus-records/internal/models"
)

func TestAuthorize(t *testing.T) {
	resolved := func(role models.Role) models.Session {
		return models.Session{State: models.SessionResolved, Role: role}
	}

	cases := []struct {
		name     string
		sess     models.Session
		required models.Role
		want     Decision
	}{
		{"teacher denied admin route", resolved(models.RoleTeacher), models.RoleAdmin, Denied},
		{"admin renders admin route", resolved(models.RoleAdmin), models.RoleAdmin, Render},
		{"unauthenticated redirected", models.Session{State: models.SessionUnauthenticated}, models.RoleAdmin, RedirectToLogin},
		{"signed out redirected", models.Session{State: models.SessionSignedOut}, "", RedirectToLogin},
		{"resolving is pending", models.Session{State: models.SessionResolving}, models.RoleAdmin, Pending},
		{"no required role renders any session", resolved(models.RoleStudent), "", Render},
		{"fallback student denied admin route", models.Session{State: models.SessionResolved, Role: models.RoleStudent, Fallback: true}, models.RoleAdmin, Denied},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.sess, tt.required); got != tt.want {
				t.Fatalf("Authorize(%v, %q)=%v, want %v", tt.sess.State, tt.required, got, tt.want)
			}
		})
	}
}

func TestAuthorizeEntityKind(t *testing.T) {
	resolved := func(role models.Role) models.Session {
		return models.Session{State: models.SessionResolved, Role: role}
	}

	cases := []struct {
		name string
		sess models.Session
		kind string
		want Decision
	}{
		{"counselor may reach student notes", resolved(models.RoleCounselor), "student_note", Render},
		{"specialist may reach student notes", resolved(models.RoleSpecialist), "student_note", Render},
		{"teacher denied student notes", resolved(models.RoleTeacher), "student_note", Denied},
		{"teacher may reach plans", resolved(models.RoleTeacher), "intervention_plan", Render},
		{"specialist may reach reports", resolved(models.RoleSpecialist), "report_definition", Render},
		{"counselor denied reports", resolved(models.RoleCounselor), "report_definition", Denied},
		{"unauthenticated redirected", models.Session{State: models.SessionUnauthenticated}, "student_note", RedirectToLogin},
		{"resolving is pending", models.Session{State: models.SessionResolving}, "student_note", Pending},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorizeEntityKind(tt.sess, tt.kind); got != tt.want {
				t.Fatalf("AuthorizeEntityKind(%v, %q)=%v, want %v", tt.sess.Role, tt.kind, got, tt.want)
			}
		})
	}
}

// Route gates and the advertised capability sets must agree: every role
// that carries an entity kind renders through the gate, every role that
// does not is denied.
func TestEntityKindGateMatchesCapabilities(t *testing.T) {
	roles := []models.Role{
		models.RoleStudent, models.RoleTeacher, models.RoleCounselor,
		models.RoleSpecialist, models.RoleAdmin,
	}
	kinds := []string{
		"appointment", "intervention_plan", "student_note",
		"report_definition", "user", "tenant", "audit_log_entry",
	}

	for _, role := range roles {
		sess := models.Session{State: models.SessionResolved, Role: role}
		for _, kind := range kinds {
			granted := CanAccessEntityKind(role, kind)
			decision := AuthorizeEntityKind(sess, kind)
			if granted && decision != Render {
				t.Fatalf("%s advertises %s but gate returned %v", role, kind, decision)
			}
			if !granted && decision != Denied {
				t.Fatalf("%s does not advertise %s but gate returned %v", role, kind, decision)
			}
		}
	}
}

func TestCapabilitiesFor(t *testing.T) {
	caps := CapabilitiesFor(models.RoleAdmin)
	if caps.Role != models.RoleAdmin {
		t.Fatalf("expected admin capabilities, got %v", caps.Role)
	}
	if !CanAccessEntityKind(models.RoleAdmin, "audit_log_entry") {
		t.Fatal("admin should access audit entries")
	}
	if CanAccessEntityKind(models.RoleStudent, "audit_log_entry") {
		t.Fatal("student should not access audit entries")
	}

	// unknown roles degrade to the student set
	unknown := CapabilitiesFor(models.Role("superuser"))
	if unknown.Role != models.RoleStudent {
		t.Fatalf("unknown role should get student capabilities, got %v", unknown.Role)
	}
}
