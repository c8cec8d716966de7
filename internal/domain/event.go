package domain

// Story lifecycle actions carried by published events.
const (
	ActionCreated = "created"
	ActionViewed  = "viewed"
	ActionDeleted = "deleted"
	ActionExpired = "expired"
)
