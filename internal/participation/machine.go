// Package participation owns the challenge-participation lifecycle: the pure
// transition rules, the contract validation that gates acceptance, and the
// service that drives transitions through the backend while keeping the local
// link store consistent.
package participation

import (
	"fmt"

	"github.com/challengeme/client/internal/models"
)

// transitions lists every allowed forward edge of the lifecycle.
// PENDING may also be removed entirely (decline), which is deletion of the
// row rather than a status, so it does not appear here.
var transitions = map[models.Status][]models.Status{
	models.StatusPending:   {models.StatusAccepted},
	models.StatusAccepted:  {models.StatusCompleted},
	models.StatusCompleted: {models.StatusAccepted}, // restart
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition (wrapped with both statuses)
// when from -> to is not allowed. The check is a local guard: the server
// remains the authority of record, and a caller whose view has gone stale
// should re-fetch rather than force the transition.
func CheckTransition(from, to models.Status) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CanDecline reports whether a participation in the given status may be
// removed by the user. Only a pending invitation is declinable; an accepted
// or completed participation is history the user keeps.
func CanDecline(status models.Status) bool {
	return status == models.StatusPending
}
