package domain

import "time"

type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID        string `json:"id"`
	CountryID string `json:"countryId"`
	Name      string `json:"name"`
}

// UserAddress belongs to exactly one user. At most one address per user may be
// the default; saving a new default unsets all others in the same transaction.
type UserAddress struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CountryID string    `json:"countryId"`
	CityID    string    `json:"cityId"`
	Street    string    `json:"street"`
	FullName  string    `json:"fullName"`
	Mobile    string    `json:"mobile"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}
