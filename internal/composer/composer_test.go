package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainwatch/internal/models"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestComposeEscalationTable(t *testing.T) {
	c := New("/")

	cases := []struct {
		level       models.Severity
		title       string
		body        string
		interaction bool
		pulses      int
	}{
		{models.SeverityDanger, "🚨 Drain danger", "Blockage risk is high. Check immediately.", true, 5},
		{models.SeverityCaution, "🟠 Drain caution", "Blockage risk is increasing.", false, 3},
		{models.SeverityWarning, "⚠️ Drain warning", "Debris accumulation is increasing.", false, 1},
		{models.SeverityInfo, "Drain status", "Status has been updated.", false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.level.String(), func(t *testing.T) {
			d := c.Compose(models.ClassifiedEvent{Level: tc.level})
			assert.Equal(t, tc.title, d.Title)
			assert.Equal(t, tc.body, d.Body)
			assert.Equal(t, tc.interaction, d.RequireInteraction)
			assert.Len(t, d.TactilePattern, tc.pulses)
			assert.Equal(t, 200*time.Millisecond, d.TactilePattern[0])
		})
	}
}

func TestComposeMessageOverridesDefaultBody(t *testing.T) {
	c := New("/")

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityCaution, Message: "pipe 7 at 60%"})

	assert.Equal(t, "pipe 7 at 60%", d.Body)
}

func TestComposeZeroScoreStillRenders(t *testing.T) {
	c := New("/")
	score := 0.0

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityInfo, RiskScore: &score})

	assert.Contains(t, d.Body, "0.0%")
}

func TestComposeAbsentScoreLeavesBodyAlone(t *testing.T) {
	c := New("/")

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityInfo})

	assert.NotContains(t, d.Body, "%")
	assert.Equal(t, "Status has been updated.", d.Body)
}

func TestComposeDangerScenario(t *testing.T) {
	c := New("/")
	score := 92.5

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityDanger, RiskScore: &score})

	assert.Contains(t, d.Title, "🚨")
	assert.True(t, d.RequireInteraction)
	assert.True(t, strings.HasSuffix(d.Body, "92.5%"), "body should end with the formatted score, got %q", d.Body)
}

func TestComposeScoreRoundsToOneDecimal(t *testing.T) {
	c := New("/")
	score := 33.333

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityWarning, RiskScore: &score})

	assert.True(t, strings.HasSuffix(d.Body, "33.3%"))
}

func TestComposeActionsAreFixed(t *testing.T) {
	c := New("/")

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityDanger})

	require.Len(t, d.Actions, 2)
	assert.Equal(t, models.Action{ID: "view", Label: "Open dashboard"}, d.Actions[0])
	assert.Equal(t, models.Action{ID: "close", Label: "Dismiss"}, d.Actions[1])
}

func TestComposePayload(t *testing.T) {
	clock := fixedClock()
	c := New("/").WithClock(clock)
	score := 41.0

	d := c.Compose(models.ClassifiedEvent{Level: models.SeverityCaution, RiskScore: &score})

	assert.Equal(t, "/", d.Payload.URL)
	assert.Equal(t, "caution", d.Payload.Level)
	require.NotNil(t, d.Payload.RiskScore)
	assert.Equal(t, 41.0, *d.Payload.RiskScore)
	assert.Equal(t, clock(), d.Payload.ObservedAt)
}

func TestComposeTagsAreUnique(t *testing.T) {
	c := New("/")

	a := c.Compose(models.ClassifiedEvent{Level: models.SeverityInfo})
	b := c.Compose(models.ClassifiedEvent{Level: models.SeverityInfo})

	assert.NotEmpty(t, a.Tag)
	assert.NotEqual(t, a.Tag, b.Tag)
}
