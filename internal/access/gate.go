// Package access decides whether a session may reach a route or entity
// kind. Decisions are pure functions of the session; no I/O happens here.
package access

import (
	"github.com/campushq/campus-records/internal/models"
)

// Decision is the outcome of an authorization check.
type Decision string

const (
	// Pending means session resolution is still in flight: the caller must
	// present a neutral waiting state, neither content nor an error.
	Pending Decision = "pending"
	// Render grants access.
	Render Decision = "render"
	// RedirectToLogin means there is no authenticated principal.
	RedirectToLogin Decision = "redirect_to_login"
	// Denied means the principal is authenticated but lacks the required
	// role. Distinct from RedirectToLogin so callers can show an explicit
	// access-denied view instead of bouncing to login.
	Denied Decision = "denied"
)

// Authorize gates a route. requiredRole may be empty for routes any
// signed-in principal can reach.
func Authorize(sess models.Session, requiredRole models.Role) Decision {
	if sess.State == models.SessionResolving {
		return Pending
	}
	if !sess.Authenticated() {
		return RedirectToLogin
	}
	if requiredRole != "" && sess.Role != requiredRole {
		return Denied
	}
	return Render
}

// AuthorizeEntityKind gates a route on the session's capability set, so
// route wiring and the capabilities advertised to clients cannot drift
// apart.
func AuthorizeEntityKind(sess models.Session, kind string) Decision {
	if sess.State == models.SessionResolving {
		return Pending
	}
	if !sess.Authenticated() {
		return RedirectToLogin
	}
	if !CanAccessEntityKind(sess.Role, kind) {
		return Denied
	}
	return Render
}

// RoleCapabilities is the per-role allowance set, resolved once per
// session instead of consulting role-keyed dictionaries at each call site.
type RoleCapabilities struct {
	Role               models.Role `json:"role"`
	AllowedRoutes      []string    `json:"allowed_routes"`
	AllowedEntityKinds []string    `json:"allowed_entity_kinds"`
}

var capabilities = map[models.Role]RoleCapabilities{
	models.RoleStudent: {
		Role:               models.RoleStudent,
		AllowedRoutes:      []string{"/dashboard", "/appointments", "/profile"},
		AllowedEntityKinds: []string{"appointment"},
	},
	models.RoleTeacher: {
		Role:               models.RoleTeacher,
		AllowedRoutes:      []string{"/dashboard", "/students", "/appointments", "/profile"},
		AllowedEntityKinds: []string{"appointment", "intervention_plan"},
	},
	models.RoleCounselor: {
		Role:               models.RoleCounselor,
		AllowedRoutes:      []string{"/dashboard", "/students", "/appointments", "/notes", "/plans", "/profile"},
		AllowedEntityKinds: []string{"appointment", "intervention_plan", "student_note"},
	},
	models.RoleSpecialist: {
		Role:               models.RoleSpecialist,
		AllowedRoutes:      []string{"/dashboard", "/students", "/appointments", "/notes", "/plans", "/reports", "/profile"},
		AllowedEntityKinds: []string{"appointment", "intervention_plan", "student_note", "report_definition"},
	},
	models.RoleAdmin: {
		Role:               models.RoleAdmin,
		AllowedRoutes:      []string{"/dashboard", "/users", "/tenants", "/audit", "/reports", "/profile"},
		AllowedEntityKinds: []string{"user", "tenant", "audit_log_entry", "report_definition"},
	},
}

// CapabilitiesFor resolves the allowance set for a role. Unknown roles get
// the student set.
func CapabilitiesFor(role models.Role) RoleCapabilities {
	if caps, ok := capabilities[role]; ok {
		return caps
	}
	return capabilities[models.RoleStudent]
}

// CanAccessEntityKind reports whether the role may operate on the entity
// kind.
func CanAccessEntityKind(role models.Role, kind string) bool {
	for _, k := range CapabilitiesFor(role).AllowedEntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}
