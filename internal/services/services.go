// Package services composes the permission evaluator, repositories and (for
// deals) the state machine inside one transactional boundary per request.
// Services translate every recognized condition into an apperrors kind;
// anything else bubbles up unmodified and surfaces as a 500.
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
)

// notFoundOr maps a gorm record-not-found onto the shared taxonomy. The
// same NotFound is used for missing and cross-organization resources, so
// the two are indistinguishable to callers.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource)
	}
	return err
}

// startOfDay truncates to the server's local date. Due-date comparisons use
// this, never a client-supplied "now".
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
