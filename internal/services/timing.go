package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long an operation took. Call it deferred with
// time.Now() evaluated at entry. Solves finish in microseconds, so the
// elapsed time is reported at that resolution.
func TrackTime(op string, start time.Time) {
	log.WithFields(log.Fields{
		"op":         op,
		"elapsed_us": time.Since(start).Microseconds(),
	}).Debug("timing")
}
