package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseTransitions(t *testing.T) {
	forward := []struct {
		from, to Phase
	}{
		{PhaseUpcoming, PhaseRegistration},
		{PhaseRegistration, PhaseActive},
		{PhaseActive, PhaseJudging},
		{PhaseJudging, PhaseCompleted},
	}
	for _, tc := range forward {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	// No skipping, no going back.
	assert.False(t, PhaseUpcoming.CanTransitionTo(PhaseActive))
	assert.False(t, PhaseActive.CanTransitionTo(PhaseRegistration))
	assert.False(t, PhaseJudging.CanTransitionTo(PhaseActive))

	// Cancel from any non-terminal phase, never out of a terminal one.
	for _, p := range []Phase{PhaseUpcoming, PhaseRegistration, PhaseActive, PhaseJudging} {
		assert.True(t, p.CanTransitionTo(PhaseCancelled), "%s -> cancelled", p)
	}
	assert.False(t, PhaseCompleted.CanTransitionTo(PhaseCancelled))
	assert.False(t, PhaseCancelled.CanTransitionTo(PhaseRegistration))
}

func TestValidateTimeline(t *testing.T) {
	base := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	valid := Competition{
		RegistrationOpensAt:  base,
		RegistrationClosesAt: base.Add(24 * time.Hour),
		StartsAt:             base.Add(48 * time.Hour),
		EndsAt:               base.Add(60 * time.Hour),
		AwardsAt:             base.Add(84 * time.Hour),
	}
	assert.NoError(t, valid.ValidateTimeline())

	swapped := valid
	swapped.StartsAt, swapped.EndsAt = swapped.EndsAt, swapped.StartsAt
	assert.Error(t, swapped.ValidateTimeline())

	lateClose := valid
	lateClose.RegistrationClosesAt = lateClose.StartsAt.Add(time.Hour)
	assert.Error(t, lateClose.ValidateTimeline())
}

func TestRegistrationOpen(t *testing.T) {
	base := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	c := Competition{
		Phase:                PhaseRegistration,
		RegistrationOpensAt:  base,
		RegistrationClosesAt: base.Add(24 * time.Hour),
	}

	assert.True(t, c.RegistrationOpen(base.Add(time.Hour)))
	assert.False(t, c.RegistrationOpen(base.Add(-time.Minute)))
	assert.False(t, c.RegistrationOpen(base.Add(25*time.Hour)))

	c.Phase = PhaseActive
	assert.False(t, c.RegistrationOpen(base.Add(time.Hour)))
}

func TestSpeciesEligible(t *testing.T) {
	open := Competition{}
	assert.True(t, open.SpeciesEligible("anything"))

	restricted := Competition{TargetSpecies: []string{"pike", "perch"}}
	assert.True(t, restricted.SpeciesEligible("pike"))
	assert.False(t, restricted.SpeciesEligible("carp"))
}
