package composer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"drainwatch/internal/models"
)

// Tactile pulse patterns by escalation level. Durations alternate
// pulse/pause, matching what the dashboard forwards to the vibration API.
var (
	patternDanger  = []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}
	patternCaution = []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}
	patternSingle  = []time.Duration{200 * time.Millisecond}
)

// Composer builds ready-to-render alert descriptors from classified
// events. Composition is total: any ClassifiedEvent yields a descriptor.
type Composer struct {
	targetURL string
	iconRef   string
	now       func() time.Time
}

// New returns a Composer whose descriptors navigate to targetURL.
func New(targetURL string) *Composer {
	return &Composer{
		targetURL: targetURL,
		iconRef:   "/icons/drain-alert.png",
		now:       time.Now,
	}
}

// WithClock overrides the composition-time clock. Used by tests.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Compose maps a classified event onto its alert presentation. The
// severity decides title, default body, whether the alert demands an
// explicit interaction, and the tactile pattern.
func (c *Composer) Compose(ev models.ClassifiedEvent) models.Descriptor {
	d := models.Descriptor{
		Tag:            uuid.New().String(),
		IconRef:        c.iconRef,
		TactilePattern: patternSingle,
		Actions: []models.Action{
			{ID: "view", Label: "Open dashboard"},
			{ID: "close", Label: "Dismiss"},
		},
		Payload: models.Payload{
			URL:        c.targetURL,
			Level:      ev.Level.String(),
			RiskScore:  ev.RiskScore,
			ObservedAt: c.now(),
		},
	}

	switch ev.Level {
	case models.SeverityDanger:
		d.Title = "🚨 Drain danger"
		d.Body = "Blockage risk is high. Check immediately."
		d.RequireInteraction = true
		d.TactilePattern = patternDanger
	case models.SeverityCaution:
		d.Title = "🟠 Drain caution"
		d.Body = "Blockage risk is increasing."
		d.TactilePattern = patternCaution
	case models.SeverityWarning:
		d.Title = "⚠️ Drain warning"
		d.Body = "Debris accumulation is increasing."
	default:
		d.Title = "Drain status"
		d.Body = "Status has been updated."
	}

	if ev.Message != "" {
		d.Body = ev.Message
	}

	// Presence check, not truthiness: a score of exactly 0 still renders.
	if ev.RiskScore != nil {
		d.Body += fmt.Sprintf("\nRisk: %.1f%%", *ev.RiskScore)
	}

	return d
}
