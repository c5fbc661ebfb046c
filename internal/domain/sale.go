package domain

import "time"

// Sale is a sales transaction snapshot. Quantity and UnitPrice arrive as
// numbers or numeric strings depending on the backend's serializer, so both
// use the coercing Amount type. Product and User are optional denormalized
// sub-objects some endpoints include.
type Sale struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"productId"`
	UserID    int64    `json:"userId"`
	Quantity  Amount   `json:"quantity"`
	UnitPrice Amount   `json:"unitPrice"`
	Date      string   `json:"date"`
	Product   *Product `json:"product,omitempty"`
	User      *User    `json:"user,omitempty"`
}

// Total is the derived line total. It is never stored.
func (s Sale) Total() float64 {
	return s.Quantity.Float() * s.UnitPrice.Float()
}

// Day returns the sale's calendar day in local ISO form (2006-01-02).
// Dates arrive either as plain days or full RFC3339 timestamps.
func (s Sale) Day() string {
	if t, err := time.Parse(time.RFC3339, s.Date); err == nil {
		return t.Local().Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01-02", s.Date); err == nil {
		return t.Format("2006-01-02")
	}
	return s.Date
}
