package entity

// LinkCheckResult is the probe outcome for a single hyperlink.
type LinkCheckResult struct {
	URL        string `json:"url"`
	Status     int    `json:"status"`
	OK         bool   `json:"ok"`
	AnchorText string `json:"anchorText,omitempty"`
	Error      string `json:"error,omitempty"`
}

// WebsiteLinkScanResult aggregates the link probes of one page.
// CheckedLinks equals len(BrokenLinks)+len(WorkingLinks) unless Error is set.
type WebsiteLinkScanResult struct {
	URL          string            `json:"url"`
	TotalLinks   int               `json:"totalLinks"`
	CheckedLinks int               `json:"checkedLinks"`
	BrokenLinks  []LinkCheckResult `json:"brokenLinks"`
	WorkingLinks []LinkCheckResult `json:"workingLinks"`
	Error        string            `json:"error,omitempty"`
}

func (r WebsiteLinkScanResult) Failed() bool {
	return r.Error != ""
}

// Page is a fetched HTML document. URL is the final URL after redirects.
type Page struct {
	URL    string
	Status int
	Body   string
}
