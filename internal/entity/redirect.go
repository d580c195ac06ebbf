package entity

// RedirectHop is one request/response pair of a redirect chain. Network
// failures are recorded as a hop with status 0 and an error message.
type RedirectHop struct {
	URL     string            `json:"url"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// RedirectTrace is the ordered hop list for one start URL. Truncated is set
// when the chain was still redirecting at the hop bound.
type RedirectTrace struct {
	URL       string        `json:"url"`
	Hops      []RedirectHop `json:"hops"`
	Truncated bool          `json:"truncated"`
	Error     string        `json:"error,omitempty"`
}

// Failed reports whether the trace ended on a network error or never started.
func (t RedirectTrace) Failed() bool {
	if t.Error != "" || len(t.Hops) == 0 {
		return true
	}
	return t.Hops[len(t.Hops)-1].Error != ""
}
