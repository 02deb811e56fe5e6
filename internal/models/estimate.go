package models

import "time"

// Estimate is a completed price estimate kept for the user's history.
type Estimate struct {
	ID                string    `json:"id" db:"id"`
	ChatID            int64     `json:"chat_id" db:"chat_id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	DistrictCode      int       `json:"district_code" db:"district_code"`
	DistrictName      string    `json:"district_name" db:"district_name"`
	ApartmentTypeCode int       `json:"apartment_type_code" db:"apartment_type_code"`
	ApartmentTypeName string    `json:"apartment_type_name" db:"apartment_type_name"`
	Area              float64   `json:"area" db:"area"`
	CurrentFloor      int       `json:"current_floor" db:"current_floor"`
	TotalFloors       int       `json:"total_floors" db:"total_floors"`
	Price             int64     `json:"price" db:"price"`
	Deviation         int64     `json:"deviation" db:"deviation"`
	ModelVersion      string    `json:"model_version" db:"model_version"`
	CreatedAt         time.Time `json:"created_at" db:"-"`
}
