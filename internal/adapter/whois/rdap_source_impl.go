package whois

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/openrdap/rdap"

	"github.com/user/seo-scanner/internal/entity"
)

var errNotDomainObject = errors.New("rdap response is not a domain object")

// RDAPSource queries the Registration Data Access Protocol. Without a fixed
// server the IANA bootstrap registry picks one per TLD.
type RDAPSource struct {
	client *rdap.Client
	server *url.URL
}

func NewRDAPSource(httpClient *http.Client, serverURL string) (*RDAPSource, error) {
	s := &RDAPSource{client: &rdap.Client{HTTP: httpClient}}
	if serverURL != "" {
		u, err := url.Parse(serverURL)
		if err != nil {
			return nil, fmt.Errorf("invalid RDAP server URL %q: %w", serverURL, err)
		}
		s.server = u
	}
	return s, nil
}

func (s *RDAPSource) Name() string {
	return "rdap"
}

func (s *RDAPSource) Lookup(ctx context.Context, domain string) (*entity.WhoisLookup, error) {
	req := rdap.NewDomainRequest(domain).WithContext(ctx)
	if s.server != nil {
		req = req.WithServer(s.server)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rdap query %s: %w", domain, err)
	}
	d, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return nil, errNotDomainObject
	}
	return &entity.WhoisLookup{Record: normalizeRDAP(d)}, nil
}

func normalizeRDAP(d *rdap.Domain) entity.WhoisRecord {
	record := entity.WhoisRecord{}
	name := d.LDHName
	if name == "" {
		name = d.UnicodeName
	}
	record.SetString(entity.WhoisDomainName, name)
	record.SetList(entity.WhoisStatus, d.Status)

	var nameServers []string
	for _, ns := range d.Nameservers {
		if ns.LDHName != "" {
			nameServers = append(nameServers, ns.LDHName)
		}
	}
	record.SetList(entity.WhoisNameServer, nameServers)

	for _, ev := range d.Events {
		switch ev.Action {
		case "registration":
			record.SetString(entity.WhoisCreationDate, ev.Date)
		case "expiration":
			record.SetString(entity.WhoisExpirationDate, ev.Date)
		case "last changed":
			record.SetString(entity.WhoisUpdatedDate, ev.Date)
		}
	}

	if registrar := findEntity(d.Entities, "registrar"); registrar != nil {
		record.SetString(entity.WhoisRegistrar, vcardName(registrar))
	}
	if registrant := findEntity(d.Entities, "registrant"); registrant != nil {
		record.SetString(entity.WhoisRegistrantName, vcardName(registrant))
		record.SetString(entity.WhoisRegistrantOrganization, vcardOrg(registrant))
	}
	return record
}

func findEntity(entities []rdap.Entity, role string) *rdap.Entity {
	for i := range entities {
		if slices.Contains(entities[i].Roles, role) {
			return &entities[i]
		}
	}
	return nil
}

func vcardName(e *rdap.Entity) string {
	if e.VCard == nil {
		return ""
	}
	if name := e.VCard.Name(); name != "" {
		return name
	}
	return vcardOrg(e)
}

func vcardOrg(e *rdap.Entity) string {
	if e.VCard == nil {
		return ""
	}
	prop := e.VCard.GetFirst("org")
	if prop == nil {
		return ""
	}
	for _, v := range prop.Values() {
		if v != "" {
			return v
		}
	}
	return ""
}
