package whois

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	whoisparser "github.com/likexian/whois-parser"

	"github.com/user/seo-scanner/internal/entity"
)

const rdapDomainJSON = `{
  "objectClassName": "domain",
  "ldhName": "EXAMPLE.COM",
  "status": ["client delete prohibited", "client transfer prohibited"],
  "events": [
    {"eventAction": "registration", "eventDate": "1995-08-14T04:00:00Z"},
    {"eventAction": "expiration", "eventDate": "2026-08-13T04:00:00Z"},
    {"eventAction": "last changed", "eventDate": "2025-08-14T07:01:39Z"}
  ],
  "nameservers": [
    {"objectClassName": "nameserver", "ldhName": "A.IANA-SERVERS.NET"},
    {"objectClassName": "nameserver", "ldhName": "B.IANA-SERVERS.NET"}
  ],
  "entities": [
    {
      "objectClassName": "entity",
      "roles": ["registrar"],
      "vcardArray": ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "RESERVED-Internet Assigned Numbers Authority"]]]
    },
    {
      "objectClassName": "entity",
      "roles": ["registrant"],
      "vcardArray": ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "Jane Doe"], ["org", {}, "text", "Example Org"]]]
    }
  ]
}`

func TestRDAPSourceLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(strings.ToLower(r.URL.Path), "/domain/example.com") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = w.Write([]byte(rdapDomainJSON))
	}))
	defer srv.Close()

	source, err := NewRDAPSource(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("NewRDAPSource: %v", err)
	}

	lookup, err := source.Lookup(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	rec := lookup.Record

	checks := map[string]string{
		entity.WhoisDomainName:             "EXAMPLE.COM",
		entity.WhoisCreationDate:           "1995-08-14T04:00:00Z",
		entity.WhoisExpirationDate:         "2026-08-13T04:00:00Z",
		entity.WhoisUpdatedDate:            "2025-08-14T07:01:39Z",
		entity.WhoisRegistrar:              "RESERVED-Internet Assigned Numbers Authority",
		entity.WhoisRegistrantName:         "Jane Doe",
		entity.WhoisRegistrantOrganization: "Example Org",
	}
	for key, want := range checks {
		if rec[key] != want {
			t.Fatalf("%s: expected %q, got %v", key, want, rec[key])
		}
	}
	ns, ok := rec[entity.WhoisNameServer].([]string)
	if !ok || len(ns) != 2 || ns[0] != "A.IANA-SERVERS.NET" {
		t.Fatalf("unexpected name servers %v", rec[entity.WhoisNameServer])
	}
	if status, ok := rec[entity.WhoisStatus].([]string); !ok || len(status) != 2 {
		t.Fatalf("unexpected status %v", rec[entity.WhoisStatus])
	}
}

func TestRDAPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	source, err := NewRDAPSource(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("NewRDAPSource: %v", err)
	}
	if _, err := source.Lookup(context.Background(), "missing.example"); err == nil {
		t.Fatalf("expected error for unknown domain")
	}
}

func TestNormalizeParsed(t *testing.T) {
	info := whoisparser.WhoisInfo{
		Domain: &whoisparser.Domain{
			Domain:         "example.com",
			CreatedDate:    "1995-08-14T04:00:00Z",
			UpdatedDate:    "2024-08-14T07:01:34Z",
			ExpirationDate: "2025-08-13T04:00:00Z",
			Status:         []string{"clientdeleteprohibited"},
			NameServers:    []string{"a.iana-servers.net", "b.iana-servers.net"},
		},
		Registrar:  &whoisparser.Contact{Name: "RESERVED-Internet Assigned Numbers Authority", ReferralURL: "http://res-dom.iana.org"},
		Registrant: &whoisparser.Contact{Organization: "Internet Assigned Numbers Authority", Country: "US"},
	}

	rec := normalizeParsed(info)
	if rec[entity.WhoisDomainName] != "example.com" || rec[entity.WhoisRegistrar] != "RESERVED-Internet Assigned Numbers Authority" {
		t.Fatalf("unexpected record %v", rec)
	}
	if rec[entity.WhoisRegistrantOrganization] != "Internet Assigned Numbers Authority" {
		t.Fatalf("expected registrant organization, got %v", rec[entity.WhoisRegistrantOrganization])
	}
	if _, ok := rec[entity.WhoisRegistrantName]; ok {
		t.Fatalf("empty fields must be omitted")
	}
	if ns, ok := rec[entity.WhoisNameServer].([]string); !ok || len(ns) != 2 {
		t.Fatalf("unexpected name servers %v", rec[entity.WhoisNameServer])
	}
}

func TestNormalizeParsedEmpty(t *testing.T) {
	if rec := normalizeParsed(whoisparser.WhoisInfo{}); len(rec) != 0 {
		t.Fatalf("expected empty record, got %v", rec)
	}
}
