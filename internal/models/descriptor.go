package models

import "time"

// Action is one of the buttons attached to a rendered alert.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Payload is the subset of alert state the platform retains until the user
// acts on or dismisses the alert. It travels back with every interaction.
type Payload struct {
	URL        string    `json:"url"`
	Level      string    `json:"level"`
	RiskScore  *float64  `json:"riskScore,omitempty"`
	ObservedAt time.Time `json:"observedAt"`
}

// Descriptor is the fully composed, ready-to-render alert. It exists only
// for the duration of one alert lifecycle: the composer creates it, the
// delivery agent hands it to the notification surface, and the surface
// keeps the Payload around until the alert is closed.
type Descriptor struct {
	Tag                string          `json:"tag"`
	Title              string          `json:"title"`
	Body               string          `json:"body"`
	RequireInteraction bool            `json:"requireInteraction"`
	TactilePattern     []time.Duration `json:"tactilePattern"`
	IconRef            string          `json:"iconRef"`
	Actions            []Action        `json:"actions"`
	Payload            Payload         `json:"payload"`
}
