package participation

import "errors"

var (
	// ErrInvalidTransition means the requested status change is not an edge
	// of the lifecycle graph from the participation's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoParticipation means no local participation matches the given id.
	ErrNoParticipation = errors.New("no such participation")

	// ErrAlreadyParticipating means the user already holds a non-terminal
	// participation for the challenge, so self-enrolling would duplicate it.
	ErrAlreadyParticipating = errors.New("challenge already in your list")

	// ErrSelfAssign means the user tried to invite themselves to a challenge.
	ErrSelfAssign = errors.New("cannot assign a challenge to yourself")
)
