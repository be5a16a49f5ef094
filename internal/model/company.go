package model

// Company is the tenant/sponsor an article is attributed to.
type Company struct {
	ID     int64  `json:"id" db:"id"`
	Logo   string `json:"logo" db:"logo"`
	Name   string `json:"name" db:"name"`
	Status Status `json:"status" db:"status"`
}
