package assignment

// isAllowedTransition is the assignment lifecycle:
//
//	pending -> active -> completed
//	active <-> paused
//	any non-terminal -> cancelled
func isAllowedTransition(current, target string) bool {
	if IsTerminal(current) || current == target {
		return false
	}

	switch target {
	case StatusActive:
		return current == StatusPending || current == StatusPaused
	case StatusPaused:
		return current == StatusActive
	case StatusCompleted:
		return current == StatusActive
	case StatusCancelled:
		return true
	default:
		return false
	}
}
