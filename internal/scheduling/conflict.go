package scheduling

import (
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	"github.com/google/uuid"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back bookings that share a boundary
// instant do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict reports whether the proposed window collides with any of the
// provider's existing appointments. Cancelled rows never block a slot, and
// excludeID lets a reschedule ignore the appointment being moved.
func HasConflict(start, end time.Time, providerID uuid.UUID, existing []models.Appointment, excludeID *uuid.UUID) bool {
	for _, appt := range existing {
		if appt.ProviderID != providerID {
			continue
		}
		if appt.Status == enums.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		if Overlaps(start, end, appt.StartTime, appt.EndTime) {
			return true
		}
	}
	return false
}
