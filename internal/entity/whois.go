package entity

// Canonical WHOIS field names shared by every lookup source.
const (
	WhoisDomainName             = "domainName"
	WhoisRegistrar              = "registrar"
	WhoisCreationDate           = "creationDate"
	WhoisUpdatedDate            = "updatedDate"
	WhoisExpirationDate         = "expirationDate"
	WhoisStatus                 = "status"
	WhoisNameServer             = "nameServer"
	WhoisRegistrantName         = "registrantName"
	WhoisRegistrantOrganization = "registrantOrganization"
	WhoisRegistrantCountry      = "registrantCountry"
	WhoisRegistrarURL           = "registrarUrl"
	WhoisServer                 = "whoisServer"
)

// WhoisRecord maps canonical field names to a string or a []string.
type WhoisRecord map[string]any

// SetString stores v under key unless it is empty.
func (r WhoisRecord) SetString(key, v string) {
	if v != "" {
		r[key] = v
	}
}

// SetList stores vs under key unless it is empty.
func (r WhoisRecord) SetList(key string, vs []string) {
	if len(vs) > 0 {
		r[key] = vs
	}
}

// WhoisLookup is what a single WHOIS source returned.
type WhoisLookup struct {
	Record WhoisRecord
	Raw    string
}

// WhoisResult is the resolved lookup for one domain. Data comes from exactly
// one source, named by Source.
type WhoisResult struct {
	Domain  string      `json:"domain"`
	Data    WhoisRecord `json:"data"`
	Source  string      `json:"source,omitempty"`
	RawText string      `json:"rawText,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (r WhoisResult) Failed() bool {
	return r.Error != ""
}
