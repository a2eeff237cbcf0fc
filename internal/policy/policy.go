// Package policy centralizes every authorization decision in the application.
// Handlers and services call Authorize instead of comparing role strings ad hoc.
package policy

import (
	"brrads/internal/models"
)

// Actor is the authenticated identity performing an operation. A zero-ID actor
// is anonymous.
type Actor struct {
	ID       uint
	Role     models.Role
	IsActive bool
}

// Anonymous reports whether the actor is unauthenticated.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// Action enumerates every gated operation.
type Action string

const (
	ActionSubmitRequest        Action = "submit_request"
	ActionSubmitFanArt         Action = "submit_fan_art"
	ActionReadOwnSubmissions   Action = "read_own_submissions"
	ActionReadAdminListings    Action = "read_admin_listings"
	ActionTransitionSubmission Action = "transition_submission"
	ActionDeleteSubmission     Action = "delete_submission"
	ActionReadUser             Action = "read_user"
	ActionUpdateProfile        Action = "update_profile"
	ActionChangeUserRole       Action = "change_user_role"
	ActionToggleUserActive     Action = "toggle_user_active"
	ActionDeleteUser           Action = "delete_user"
	ActionManageLiveStream     Action = "manage_live_stream"
	ActionManageSettings       Action = "manage_settings"
	ActionViewStats            Action = "view_stats"
)

// Resource identifies the target of an action. OwnerID is the owner of a
// submission or profile; TargetUserID is the subject of a user-management
// action. Either may be zero when not applicable.
type Resource struct {
	OwnerID      uint
	TargetUserID uint
}

// Decision is the outcome of an authorization check. Denials carry the error
// code the endpoint should respond with.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// Err converts a denial into the matching AppError. Returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &models.AppError{Code: d.Code, Message: d.Reason}
}

// Authorize maps {actor, action, resource} to an allow/deny decision. It is a
// pure function: no I/O, no side effects, never an unexpected error.
func Authorize(actor Actor, action Action, res Resource) Decision {
	if actor.Anonymous() {
		return deny(models.CodeUnauthorized, "Authentication required")
	}
	if !actor.IsActive {
		return deny(models.CodeForbidden, "Account is disabled")
	}

	switch action {
	case ActionSubmitRequest, ActionSubmitFanArt:
		// Any authenticated, active user may submit.
		return allow()

	case ActionReadOwnSubmissions:
		if res.OwnerID == actor.ID || actor.Role.AtLeast(models.RoleModerator) {
			return allow()
		}
		return deny(models.CodeForbidden, "Access denied")

	case ActionReadUser:
		if res.TargetUserID == actor.ID || actor.Role.AtLeast(models.RoleModerator) {
			return allow()
		}
		return deny(models.CodeForbidden, "Access denied")

	case ActionUpdateProfile:
		// Profiles are updated only by their owner; role and active status
		// have their own admin-only actions.
		if res.TargetUserID == actor.ID {
			return allow()
		}
		return deny(models.CodeForbidden, "You can only update your own profile")

	case ActionReadAdminListings, ActionTransitionSubmission, ActionViewStats:
		if actor.Role.AtLeast(models.RoleModerator) {
			return allow()
		}
		return deny(models.CodeForbidden, "Moderator access required")

	case ActionDeleteSubmission, ActionManageLiveStream, ActionManageSettings:
		if actor.Role == models.RoleAdmin {
			return allow()
		}
		return deny(models.CodeForbidden, "Admin access required")

	case ActionChangeUserRole, ActionToggleUserActive, ActionDeleteUser:
		if actor.Role != models.RoleAdmin {
			return deny(models.CodeForbidden, "Admin access required")
		}
		// Self-protection: admins can never change their own role or active
		// flag, or delete their own account, even as the sole admin.
		if res.TargetUserID == actor.ID {
			return deny(models.CodeConflict, selfProtectionReason(action))
		}
		return allow()
	}

	return deny(models.CodeForbidden, "Unknown action")
}

func selfProtectionReason(action Action) string {
	switch action {
	case ActionChangeUserRole:
		return "Cannot change your own role"
	case ActionToggleUserActive:
		return "Cannot change your own account status"
	default:
		return "Cannot delete your own account"
	}
}
