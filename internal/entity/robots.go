package entity

// RobotsReport is the outcome of fetching /robots.txt. Status is nil when
// the request never produced a response.
type RobotsReport struct {
	Content *string  `json:"content"`
	IsValid bool     `json:"isValid"`
	Status  *int     `json:"status,omitempty"`
	Issues  []string `json:"issues"`
}

func (r RobotsReport) Failed() bool {
	return r.Status == nil
}
