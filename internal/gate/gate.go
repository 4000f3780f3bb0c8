// Package gate decides route admission from the current session snapshot.
// Evaluation is a pure function recomputed on every call; decisions are never
// cached, so an account activated mid-session stops being redirected without a
// reload.
package gate

import (
	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/session"
)

// Route describes the admission requirements of a navigation target.
type Route struct {
	RequiresAuth      bool
	RequiresActivated bool
	RequiresAdmin     bool
	GuestOnly         bool
}

// Outcome enumerates the three possible gate results.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeDefer    Outcome = "defer"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the result of evaluating a route against a snapshot.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Allow reports whether the caller may proceed.
func (d Decision) Allow() bool { return d.Outcome == OutcomeAllow }

// Targets names the redirect destination for each gate rule.
type Targets struct {
	Login      string
	Register   string
	Dashboard  string
	Activation string
	Payment    string
	Tasks      string
}

// TargetsFromConfig builds gate targets from service configuration.
func TargetsFromConfig(cfg config.GateConfig) Targets {
	return Targets{
		Login:      cfg.LoginTarget,
		Register:   cfg.RegisterTarget,
		Dashboard:  cfg.DashboardTarget,
		Activation: cfg.ActivationTarget,
		Payment:    cfg.PaymentTarget,
		Tasks:      cfg.TasksTarget,
	}
}

// Evaluate runs the ordered admission rules, first match wins.
//
// No redirect decision is ever made from a partially loaded snapshot: a
// loading snapshot always defers. An absent profile counts as "not activated"
// everywhere, and never satisfies the admin rule.
func Evaluate(snap session.Snapshot, route Route, targets Targets) Decision {
	if snap.Loading {
		return Decision{Outcome: OutcomeDefer}
	}

	authenticated := snap.Identity != nil

	if route.RequiresAuth && !authenticated {
		return redirect(targets.Login)
	}

	if route.RequiresAdmin {
		if !authenticated {
			return redirect(targets.Register)
		}
		if !snap.Profile.IsAdmin() {
			return redirect(targets.Dashboard)
		}
	}

	if route.RequiresActivated && !snap.Profile.IsActive() {
		return redirect(targets.Activation)
	}

	if route.GuestOnly && authenticated {
		if snap.Profile.IsActive() {
			return redirect(targets.Tasks)
		}
		return redirect(targets.Payment)
	}

	return Decision{Outcome: OutcomeAllow}
}

func redirect(target string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target}
}
