package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSessionApartmentIncomplete(t *testing.T) {
	s := NewSession(1, 2)
	assert.Equal(t, StateIdle, s.State)

	s.DistrictCode = intPtr(36)
	_, err := s.Apartment()
	assert.ErrorIs(t, err, ErrIncompleteSession)
}

func TestSessionApartmentAndReset(t *testing.T) {
	area := 65.0
	s := NewSession(1, 2)
	s.State = StateAwaitingTotalFloors
	s.DistrictCode = intPtr(36)
	s.DistrictName = "Центр 🏙️"
	s.Area = &area
	s.ApartmentTypeCode = intPtr(2)
	s.CurrentFloor = intPtr(5)
	s.TotalFloors = intPtr(10)

	apt, err := s.Apartment()
	require.NoError(t, err)
	assert.Equal(t, Apartment{DistrictCode: 36, ApartmentTypeCode: 2, Area: 65, CurrentFloor: 5, TotalFloors: 10}, apt)

	s.Reset()
	assert.Equal(t, StateIdle, s.State)
	assert.Nil(t, s.DistrictCode)
	assert.Nil(t, s.Area)
	assert.Nil(t, s.ApartmentTypeCode)
	assert.Nil(t, s.CurrentFloor)
	assert.Nil(t, s.TotalFloors)
	assert.Empty(t, s.DistrictName)
	assert.Equal(t, int64(1), s.ChatID)
}

func TestSessionClone(t *testing.T) {
	area := 40.5
	s := NewSession(1, 2)
	s.DistrictCode = intPtr(3)
	s.Area = &area

	c := s.Clone()
	*c.DistrictCode = 4
	*c.Area = 1

	assert.Equal(t, 3, *s.DistrictCode)
	assert.Equal(t, 40.5, *s.Area)
	assert.Nil(t, c.CurrentFloor)
}
