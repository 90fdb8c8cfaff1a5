package storage

import "errors"

// ErrCardNotFound is returned when a card does not exist.
var ErrCardNotFound = errors.New("card not found")

// ErrGroupNotFound is returned when a shipping group does not exist.
var ErrGroupNotFound = errors.New("shipping group not found")

// ErrUserNotFound is returned when no application status has been recorded for a user.
var ErrUserNotFound = errors.New("user not found")

// ErrVersionConflict is returned when a conditional card write loses a race with a concurrent mutation.
var ErrVersionConflict = errors.New("card version conflict")

// ErrCardNotCharging is returned when a charge is recorded against a card that no longer accepts charges.
var ErrCardNotCharging = errors.New("card does not accept charges")

// ErrBatchAlreadyDispatched is returned when a shipment batch has already been recorded as dispatched.
var ErrBatchAlreadyDispatched = errors.New("shipment batch already dispatched")
