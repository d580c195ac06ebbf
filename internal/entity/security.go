package entity

type FindingStatus string

const (
	FindingPresent FindingStatus = "present"
	FindingMissing FindingStatus = "missing"
	FindingError   FindingStatus = "error"
)

// SecurityHeaderFinding records whether one checklist header was sent.
type SecurityHeaderFinding struct {
	Header      string        `json:"header"`
	Value       *string       `json:"value"`
	Status      FindingStatus `json:"status"`
	Description string        `json:"description,omitempty"`
}

// SecurityReport holds one finding per checklist header, or a single
// finding with FindingError status when the probe itself failed.
type SecurityReport []SecurityHeaderFinding

func (r SecurityReport) Failed() bool {
	return len(r) == 1 && r[0].Status == FindingError
}
