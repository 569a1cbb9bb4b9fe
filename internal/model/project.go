// Package model defines the typed records flowing through the highlights pipeline.
package model

// Project is a geocoded project site. Immutable for the pipeline's purposes.
type Project struct {
	ID        string  `json:"project_id"`
	Name      string  `json:"project_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
}

// Location is a lat/lng pair in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location returns the project's coordinates.
func (p Project) Location() Location {
	return Location{Lat: p.Latitude, Lng: p.Longitude}
}
