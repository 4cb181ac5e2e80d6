package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdl-league/constructor-system/models"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateTournamentDates(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateTournamentDates(day(10), day(12), day(1), day(8)))
	})

	t.Run("end before start", func(t *testing.T) {
		err := validateTournamentDates(day(12), day(10), day(1), day(8))
		assert.ErrorIs(t, err, ErrInvalidTournamentDates)
	})

	t.Run("end equals start", func(t *testing.T) {
		err := validateTournamentDates(day(10), day(10), day(1), day(8))
		assert.ErrorIs(t, err, ErrInvalidTournamentDates)
	})

	t.Run("entry end before entry start", func(t *testing.T) {
		err := validateTournamentDates(day(10), day(12), day(8), day(1))
		assert.ErrorIs(t, err, ErrInvalidEntryDates)
	})

	t.Run("entry end after tournament start", func(t *testing.T) {
		err := validateTournamentDates(day(10), day(12), day(1), day(11))
		assert.ErrorIs(t, err, ErrInvalidEntryDates)
	})
}

func TestCheckClassRestrictions(t *testing.T) {
	maxTen := 10
	restrictions := []models.ClassRestriction{
		{ClassName: "A", MinParticipation: 5},
		{ClassName: "B", MinParticipation: 2, MaxParticipation: &maxTen},
	}
	player := func(class string, count int) *models.Player {
		return &models.Player{CurrentClass: class, ParticipationCount: count}
	}

	t.Run("no restrictions admits everyone", func(t *testing.T) {
		assert.NoError(t, checkClassRestrictions(nil, player("E", 0)))
	})

	t.Run("within bounds", func(t *testing.T) {
		assert.NoError(t, checkClassRestrictions(restrictions, player("B", 5)))
	})

	t.Run("at the bounds", func(t *testing.T) {
		assert.NoError(t, checkClassRestrictions(restrictions, player("B", 2)))
		assert.NoError(t, checkClassRestrictions(restrictions, player("B", 10)))
	})

	t.Run("below minimum", func(t *testing.T) {
		err := checkClassRestrictions(restrictions, player("A", 4))
		assert.ErrorIs(t, err, ErrClassNotEligible)
	})

	t.Run("above maximum", func(t *testing.T) {
		err := checkClassRestrictions(restrictions, player("B", 11))
		assert.ErrorIs(t, err, ErrClassNotEligible)
	})

	t.Run("class not listed", func(t *testing.T) {
		err := checkClassRestrictions(restrictions, player("C", 5))
		assert.ErrorIs(t, err, ErrClassNotEligible)
	})

	t.Run("no maximum means unbounded", func(t *testing.T) {
		assert.NoError(t, checkClassRestrictions(restrictions, player("A", 100)))
	})
}
