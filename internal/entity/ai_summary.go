package entity

import "encoding/json"

// AISummary is the structured site summary produced by the text-generation
// service. A failed summary carries only Error and Details.
type AISummary struct {
	Summary        string   `json:"summary"`
	Services       []string `json:"services"`
	Locations      []string `json:"locations"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	SEOKeywords    []string `json:"seoKeywords"`
	Error          string   `json:"-"`
	Details        string   `json:"-"`
}

func (s AISummary) Failed() bool {
	return s.Error != ""
}

type aiSummaryFailure struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s AISummary) MarshalJSON() ([]byte, error) {
	if s.Failed() {
		return json.Marshal(aiSummaryFailure{Error: s.Error, Details: s.Details})
	}
	type plain AISummary
	return json.Marshal(plain(s))
}

func (s *AISummary) UnmarshalJSON(data []byte) error {
	var failure aiSummaryFailure
	if err := json.Unmarshal(data, &failure); err != nil {
		return err
	}
	type plain AISummary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = AISummary(p)
	s.Error = failure.Error
	s.Details = failure.Details
	return nil
}
