package appointment_test

import (
	"testing"
	"time"

	"barberbook/internal/domain/appointment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpcoming(t *testing.T) *appointment.Appointment {
	t.Helper()

	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	slot, err := appointment.SlotFromDuration(start, 45)
	require.NoError(t, err)

	appt, err := appointment.NewAppointment(
		uuid.New(), uuid.New(), uuid.New(),
		[]uuid.UUID{uuid.New()},
		slot, 45, 5500,
	)
	require.NoError(t, err)
	return appt
}

func TestNewAppointment(t *testing.T) {
	t.Run("starts upcoming with derived totals", func(t *testing.T) {
		appt := newUpcoming(t)

		assert.NotEqual(t, uuid.Nil, appt.ID())
		assert.Equal(t, appointment.StatusUpcoming, appt.Status())
		assert.Equal(t, 45, appt.TotalDurationMin())
		assert.Equal(t, int64(5500), appt.TotalPriceCents())
		assert.Equal(t, 45*time.Minute, appt.Slot().Duration())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
		slot, err := appointment.SlotFromDuration(start, 30)
		require.NoError(t, err)

		_, err = appointment.NewAppointment(uuid.New(), uuid.New(), uuid.New(), nil, slot, 30, -1)
		assert.ErrorIs(t, err, appointment.ErrNegativePrice)
	})

	t.Run("rejects slot not matching total duration", func(t *testing.T) {
		start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
		slot, err := appointment.SlotFromDuration(start, 30)
		require.NoError(t, err)

		_, err = appointment.NewAppointment(uuid.New(), uuid.New(), uuid.New(), nil, slot, 45, 0)
		assert.ErrorIs(t, err, appointment.ErrInvalidTimeSlot)
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("upcoming to completed", func(t *testing.T) {
		appt := newUpcoming(t)
		require.NoError(t, appt.Complete())
		assert.Equal(t, appointment.StatusCompleted, appt.Status())
	})

	t.Run("upcoming to cancelled", func(t *testing.T) {
		appt := newUpcoming(t)
		require.NoError(t, appt.Cancel())
		assert.Equal(t, appointment.StatusCancelled, appt.Status())
	})

	t.Run("completed is terminal", func(t *testing.T) {
		appt := newUpcoming(t)
		require.NoError(t, appt.Complete())

		assert.ErrorIs(t, appt.Cancel(), appointment.ErrInvalidTransition)
		assert.ErrorIs(t, appt.Complete(), appointment.ErrInvalidTransition)
		assert.Equal(t, appointment.StatusCompleted, appt.Status())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		appt := newUpcoming(t)
		require.NoError(t, appt.Cancel())

		assert.ErrorIs(t, appt.Complete(), appointment.ErrInvalidTransition)
		assert.ErrorIs(t, appt.Cancel(), appointment.ErrInvalidTransition)
		assert.Equal(t, appointment.StatusCancelled, appt.Status())
	})
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, appointment.StatusUpcoming.IsActive())
	assert.True(t, appointment.StatusCompleted.IsActive())
	assert.False(t, appointment.StatusCancelled.IsActive())
}

func TestReconstructAppointment(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	slot, err := appointment.SlotFromDuration(start, 30)
	require.NoError(t, err)

	_, err = appointment.ReconstructAppointment(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil,
		slot, appointment.Status("unknown"), 30, 0, time.Now(),
	)
	assert.ErrorIs(t, err, appointment.ErrInvalidInitialStatus)
}
