package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyActor = "actor"
)

// Validation limits
const (
	MinPasswordLength = 6
	MaxBcryptPassword = 72
)

// Dashboard settings
const (
	UpcomingTaskLimit = 5
)
