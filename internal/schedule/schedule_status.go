package schedule

import "go-staffing/internal/authz"

// isStaff reports whether the actor may administer schedules beyond the
// initial planned state.
func isStaff(role string) bool {
	return role == authz.RoleAdmin || role == authz.RoleHR
}

// isAllowedTransition is the schedule lifecycle:
//
//	planned -> confirmed -> active -> completed
//	any non-terminal -> cancelled
//	planned|confirmed -> sick-leave|vacation|client-break (hr/admin override)
//	leave state -> planned (re-planning) or cancelled
//
// Terminal states permit nothing.
func isAllowedTransition(current, target, actorRole string) bool {
	if IsTerminal(current) || current == target {
		return false
	}

	switch {
	case target == StatusConfirmed:
		return current == StatusPlanned && isStaff(actorRole)
	case target == StatusActive:
		return current == StatusConfirmed && isStaff(actorRole)
	case target == StatusCompleted:
		return current == StatusActive && isStaff(actorRole)
	case target == StatusCancelled:
		return isStaff(actorRole)
	case IsLeave(target):
		return (current == StatusPlanned || current == StatusConfirmed) && isStaff(actorRole)
	case target == StatusPlanned:
		return IsLeave(current) && isStaff(actorRole)
	default:
		return false
	}
}
