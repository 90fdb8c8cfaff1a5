package cards

import (
	"fmt"

	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/models"
)

// transitions is the card status machine. A status absent from the map, or a
// target absent from its set, is an invalid transition. canceled has an empty
// set: it is terminal.
var transitions = map[models.CardStatus]map[models.CardStatus]bool{
	models.CardNotActivated: {
		models.CardActive:   true,
		models.CardCanceled: true,
	},
	models.CardActive: {
		models.CardLocked:   true,
		models.CardCanceled: true,
	},
	models.CardLocked: {
		models.CardActive:   true,
		models.CardCanceled: true,
	},
	models.CardCanceled: {},
}

// CanTransition reports whether a card may move from one status to another.
func CanTransition(from, to models.CardStatus) bool {
	return transitions[from][to]
}

// checkTransition validates a requested status change, distinguishing the
// terminal canceled state from other invalid transitions in its message.
func checkTransition(from, to models.CardStatus) error {
	if from == models.CardCanceled {
		return errs.New(errs.KindConflict, "card is canceled; no further updates are permitted")
	}
	if !CanTransition(from, to) {
		return errs.New(errs.KindConflict, fmt.Sprintf("cannot transition card from %s to %s", from, to))
	}
	return nil
}
