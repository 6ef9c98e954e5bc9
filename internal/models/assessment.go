package models

// Assessment is a named, time-scoped collection of entries (e.g. "March 2025").
type Assessment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
