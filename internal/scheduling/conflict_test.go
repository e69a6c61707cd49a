package scheduling

import (
	"testing"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.June, 3, hour, min, 0, 0, time.UTC)
}

func TestHasConflict(t *testing.T) {
	t.Parallel()

	provider := uuid.New()
	other := uuid.New()
	existingID := uuid.New()

	booked := func(providerID uuid.UUID, status enums.AppointmentStatus, start, end time.Time) models.Appointment {
		return models.Appointment{
			ID:         existingID,
			PatientID:  uuid.New(),
			ProviderID: providerID,
			StartTime:  start,
			EndTime:    end,
			Status:     status,
		}
	}

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		existing []models.Appointment
		exclude  *uuid.UUID
		want     bool
	}{
		{
			name:  "overlapping window conflicts",
			start: at(14, 30), end: at(15, 30),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			want:     true,
		},
		{
			name:  "back to back is free",
			start: at(15, 0), end: at(16, 0),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			want:     false,
		},
		{
			name:  "new window ending at existing start is free",
			start: at(13, 0), end: at(14, 0),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			want:     false,
		},
		{
			name:  "contained window conflicts",
			start: at(14, 15), end: at(14, 45),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusConfirmed, at(14, 0), at(15, 0))},
			want:     true,
		},
		{
			name:  "containing window conflicts",
			start: at(13, 0), end: at(16, 0),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			want:     true,
		},
		{
			name:  "different provider does not block",
			start: at(14, 30), end: at(15, 30),
			existing: []models.Appointment{booked(other, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			want:     false,
		},
		{
			name:  "cancelled booking frees the slot",
			start: at(14, 30), end: at(15, 30),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusCancelled, at(14, 0), at(15, 0))},
			want:     false,
		},
		{
			name:  "excluded appointment is ignored",
			start: at(14, 30), end: at(15, 30),
			existing: []models.Appointment{booked(provider, enums.AppointmentStatusScheduled, at(14, 0), at(15, 0))},
			exclude:  &existingID,
			want:     false,
		},
		{
			name:  "no bookings means no conflict",
			start: at(9, 0), end: at(10, 0),
			want:  false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := HasConflict(tc.start, tc.end, provider, tc.existing, tc.exclude)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	t.Parallel()

	require.True(t, Overlaps(at(14, 0), at(15, 0), at(14, 30), at(15, 30)))
	require.True(t, Overlaps(at(14, 30), at(15, 30), at(14, 0), at(15, 0)))
	require.False(t, Overlaps(at(14, 0), at(15, 0), at(15, 0), at(16, 0)))
	require.False(t, Overlaps(at(15, 0), at(16, 0), at(14, 0), at(15, 0)))
}
