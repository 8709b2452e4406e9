package classifier

import (
	"encoding/json"

	"drainwatch/internal/logging"
	"drainwatch/internal/models"
)

// Classifier turns raw, untrusted push payloads into ClassifiedEvents.
// It never fails: malformed input degrades to an info-level sentinel so
// the operator still sees that something happened.
type Classifier struct {
	logger *logging.Logger
}

func New(logger *logging.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify parses raw and maps it onto a severity plus display fields.
// A nil/empty payload, or one that is not valid JSON, yields the info
// sentinel; the parse failure is logged and never surfaced to the caller.
func (c *Classifier) Classify(raw []byte) models.ClassifiedEvent {
	sentinel := models.ClassifiedEvent{Level: models.SeverityInfo}

	if len(raw) == 0 {
		return sentinel
	}

	var ev models.RiskEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.logger.Warnf("Unparseable push payload, falling back to info: %v", err)
		return sentinel
	}

	return models.ClassifiedEvent{
		Level:     models.ParseSeverity(ev.Level),
		Message:   ev.Message,
		RiskScore: ev.RiskScore,
	}
}
