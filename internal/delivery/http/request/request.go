package request

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	URL   string   `json:"url"`
	Tools []string `json:"tools"`
}

type RedirectCheckRequest struct {
	URLs []string `json:"urls"`
}

// URLRequest is the body of the single-target analyzer endpoints.
type URLRequest struct {
	URL string `json:"url"`
}

type WhoisRequest struct {
	Domain string `json:"domain"`
}
