package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/session"
)

var testTargets = Targets{
	Login:      "/login",
	Register:   "/register",
	Dashboard:  "/dashboard",
	Activation: "/activate",
	Payment:    "/payment",
	Tasks:      "/tasks",
}

func identitySnap() session.Snapshot {
	return session.Snapshot{Identity: &domain.Identity{ID: "id-1", Email: "a@b.c"}}
}

func profileSnap(role domain.Role, active bool) session.Snapshot {
	snap := identitySnap()
	snap.Profile = &domain.Profile{ID: "id-1", Role: role, Active: active, Level: domain.LevelL3}
	return snap
}

func TestEvaluateDecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		snap    session.Snapshot
		route   Route
		outcome Outcome
		target  string
	}{
		{
			name:    "open route anonymous",
			snap:    session.Snapshot{},
			route:   Route{},
			outcome: OutcomeAllow,
		},
		{
			name:    "auth route anonymous redirects to login",
			snap:    session.Snapshot{},
			route:   Route{RequiresAuth: true},
			outcome: OutcomeRedirect,
			target:  "/login",
		},
		{
			name:    "auth route authenticated without profile allowed",
			snap:    identitySnap(),
			route:   Route{RequiresAuth: true},
			outcome: OutcomeAllow,
		},
		{
			name:    "admin route anonymous redirects to register",
			snap:    session.Snapshot{},
			route:   Route{RequiresAdmin: true},
			outcome: OutcomeRedirect,
			target:  "/register",
		},
		{
			name:    "admin route student redirects to dashboard",
			snap:    profileSnap(domain.RoleStudent, true),
			route:   Route{RequiresAdmin: true},
			outcome: OutcomeRedirect,
			target:  "/dashboard",
		},
		{
			name:    "admin route without profile redirects to dashboard",
			snap:    identitySnap(),
			route:   Route{RequiresAdmin: true},
			outcome: OutcomeRedirect,
			target:  "/dashboard",
		},
		{
			name:    "admin route admin allowed",
			snap:    profileSnap(domain.RoleAdmin, true),
			route:   Route{RequiresAdmin: true},
			outcome: OutcomeAllow,
		},
		{
			name:    "activated route inactive redirects to activation",
			snap:    profileSnap(domain.RoleStudent, false),
			route:   Route{RequiresAuth: true, RequiresActivated: true},
			outcome: OutcomeRedirect,
			target:  "/activate",
		},
		{
			name:    "activated route without profile redirects to activation",
			snap:    identitySnap(),
			route:   Route{RequiresAuth: true, RequiresActivated: true},
			outcome: OutcomeRedirect,
			target:  "/activate",
		},
		{
			name:    "activated route active student allowed",
			snap:    profileSnap(domain.RoleStudent, true),
			route:   Route{RequiresAuth: true, RequiresActivated: true},
			outcome: OutcomeAllow,
		},
		{
			name:    "guest route anonymous allowed",
			snap:    session.Snapshot{},
			route:   Route{GuestOnly: true},
			outcome: OutcomeAllow,
		},
		{
			name:    "guest route inactive account redirects to payment",
			snap:    profileSnap(domain.RoleStudent, false),
			route:   Route{GuestOnly: true},
			outcome: OutcomeRedirect,
			target:  "/payment",
		},
		{
			name:    "guest route without profile redirects to payment",
			snap:    identitySnap(),
			route:   Route{GuestOnly: true},
			outcome: OutcomeRedirect,
			target:  "/payment",
		},
		{
			name:    "guest route active account redirects to tasks",
			snap:    profileSnap(domain.RoleStudent, true),
			route:   Route{GuestOnly: true},
			outcome: OutcomeRedirect,
			target:  "/tasks",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := Evaluate(tc.snap, tc.route, testTargets)
			assert.Equal(t, tc.outcome, decision.Outcome)
			assert.Equal(t, tc.target, decision.Target)
		})
	}
}

func TestEvaluateLoadingAlwaysDefers(t *testing.T) {
	routes := []Route{
		{},
		{RequiresAuth: true},
		{RequiresAuth: true, RequiresActivated: true},
		{RequiresAdmin: true},
		{GuestOnly: true},
	}
	snaps := []session.Snapshot{
		{Loading: true},
		{Loading: true, Identity: &domain.Identity{ID: "id-1"}},
	}

	for _, route := range routes {
		for _, snap := range snaps {
			decision := Evaluate(snap, route, testTargets)
			assert.Equal(t, OutcomeDefer, decision.Outcome)
			assert.Empty(t, decision.Target)
		}
	}
}

func TestEvaluateAdminRuleWinsOverActivation(t *testing.T) {
	// an inactive student on an admin route is sent to the dashboard, not the
	// activation page
	decision := Evaluate(profileSnap(domain.RoleStudent, false), Route{RequiresAdmin: true, RequiresActivated: true}, testTargets)
	assert.Equal(t, OutcomeRedirect, decision.Outcome)
	assert.Equal(t, "/dashboard", decision.Target)
}

func TestEvaluateIsPure(t *testing.T) {
	snap := profileSnap(domain.RoleStudent, false)
	route := Route{RequiresAuth: true, RequiresActivated: true}

	first := Evaluate(snap, route, testTargets)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(snap, route, testTargets))
	}
}
