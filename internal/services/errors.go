package services

// ValidationError indicates the request body failed a domain check
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthenticationError indicates bad login credentials
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError indicates the caller lacks rights for the operation
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// NotFoundError indicates a referenced entity does not exist
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

// ConflictError indicates the operation clashes with current state,
// such as a duplicate email or a disallowed owner-request transition
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidDateError indicates a stay date range failed validation
type InvalidDateError struct {
	Message string
}

func (e *InvalidDateError) Error() string {
	return e.Message
}

// InvalidRoomError indicates the requested room type is not offered
type InvalidRoomError struct {
	Message string
}

func (e *InvalidRoomError) Error() string {
	return e.Message
}

// InsufficientInventoryError indicates fewer rooms remain than requested
type InsufficientInventoryError struct {
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return "not enough rooms available"
}

// CapacityExceededError indicates the party exceeds the room capacity
type CapacityExceededError struct {
	MaxGuests int
	Guests    int
	Rooms     int
}

func (e *CapacityExceededError) Error() string {
	return "guest count exceeds room capacity"
}
