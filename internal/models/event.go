package models

// RiskEvent is the wire shape pushed by the risk-scoring pipeline. Every
// field is optional and the whole payload is untrusted: any of them may be
// missing, and the payload itself may be absent or unparseable.
type RiskEvent struct {
	Level     string   `json:"level,omitempty"`
	Message   string   `json:"message,omitempty"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Severity is the closed escalation taxonomy. Values are ordered so that
// a higher severity compares greater.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCaution
	SeverityDanger
)

// ParseSeverity maps a wire-level string onto a Severity. Unknown or empty
// input falls back to SeverityInfo.
func ParseSeverity(s string) Severity {
	switch s {
	case "danger":
		return SeverityDanger
	case "caution":
		return SeverityCaution
	case "warning":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityDanger:
		return "danger"
	case SeverityCaution:
		return "caution"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ClassifiedEvent is the classifier's output: a plain immutable record.
// RiskScore stays a pointer so a legitimate score of 0 is distinguishable
// from an absent one.
type ClassifiedEvent struct {
	Level     Severity
	Message   string
	RiskScore *float64
}
