package models

import (
	"errors"
	"time"
)

// ErrIncompleteSession is returned when the collected attributes are read
// before every dialogue step has stored its value.
var ErrIncompleteSession = errors.New("session is incomplete")

// State is a step of the estimation dialogue.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingDistrict      State = "awaiting_district"
	StateAwaitingArea          State = "awaiting_area"
	StateAwaitingApartmentType State = "awaiting_apartment_type"
	StateAwaitingCurrentFloor  State = "awaiting_current_floor"
	StateAwaitingTotalFloors   State = "awaiting_total_floors"
)

// Apartment holds the validated attributes of one apartment.
type Apartment struct {
	DistrictCode      int     `json:"district"`
	ApartmentTypeCode int     `json:"apartment_type"`
	Area              float64 `json:"area"`
	CurrentFloor      int     `json:"current_floor"`
	TotalFloors       int     `json:"total_floors"`
}

// Session is the dialogue state of a single chat.
type Session struct {
	ChatID            int64     `json:"chat_id"`
	UserID            int64     `json:"user_id"`
	State             State     `json:"state"`
	DistrictCode      *int      `json:"district_code,omitempty"`
	DistrictName      string    `json:"district_name,omitempty"`
	Area              *float64  `json:"area,omitempty"`
	ApartmentTypeCode *int      `json:"apartment_type_code,omitempty"`
	ApartmentTypeName string    `json:"apartment_type_name,omitempty"`
	CurrentFloor      *int      `json:"current_floor,omitempty"`
	TotalFloors       *int      `json:"total_floors,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewSession(chatID, userID int64) *Session {
	return &Session{
		ChatID:    chatID,
		UserID:    userID,
		State:     StateIdle,
		UpdatedAt: time.Now(),
	}
}

// Reset drops every collected attribute and returns the session to idle.
func (s *Session) Reset() {
	s.State = StateIdle
	s.DistrictCode = nil
	s.DistrictName = ""
	s.Area = nil
	s.ApartmentTypeCode = nil
	s.ApartmentTypeName = ""
	s.CurrentFloor = nil
	s.TotalFloors = nil
}

// Apartment returns the collected attributes once all five are present.
func (s *Session) Apartment() (Apartment, error) {
	if s.DistrictCode == nil || s.Area == nil || s.ApartmentTypeCode == nil ||
		s.CurrentFloor == nil || s.TotalFloors == nil {
		return Apartment{}, ErrIncompleteSession
	}
	return Apartment{
		DistrictCode:      *s.DistrictCode,
		ApartmentTypeCode: *s.ApartmentTypeCode,
		Area:              *s.Area,
		CurrentFloor:      *s.CurrentFloor,
		TotalFloors:       *s.TotalFloors,
	}, nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.DistrictCode = cloneInt(s.DistrictCode)
	c.ApartmentTypeCode = cloneInt(s.ApartmentTypeCode)
	c.CurrentFloor = cloneInt(s.CurrentFloor)
	c.TotalFloors = cloneInt(s.TotalFloors)
	if s.Area != nil {
		a := *s.Area
		c.Area = &a
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
