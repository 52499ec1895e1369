package ga

type predicateEvaluator interface {
	// Checks whether a session may be placed on the slot (Class-typed and not on a holiday)
	Assignable(slot int) bool

	// Checks whether the session's faculty is allowed to teach its course
	Qualified(session Session) bool

	// Checks whether the room is of the type the session requires
	RoomTypeMatches(session Session, room int) bool

	// Checks whether the session's student count is smaller than or equal to the room's capacity
	Fits(session Session, room int) bool
}
