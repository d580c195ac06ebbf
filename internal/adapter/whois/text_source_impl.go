package whois

import (
	"context"
	"fmt"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/user/seo-scanner/internal/entity"
)

// TextSource queries registry WHOIS servers over port 43 and parses the
// free-text reply.
type TextSource struct {
	client *whois.Client
}

func NewTextSource(timeout time.Duration) *TextSource {
	return &TextSource{client: whois.NewClient().SetTimeout(timeout)}
}

func (s *TextSource) Name() string {
	return "whois"
}

func (s *TextSource) Lookup(ctx context.Context, domain string) (*entity.WhoisLookup, error) {
	type reply struct {
		raw string
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := s.client.Whois(domain)
		done <- reply{raw: raw, err: err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, fmt.Errorf("whois query %s: %w", domain, r.err)
	}

	info, err := whoisparser.Parse(r.raw)
	if err != nil {
		// Keep the raw text so rate-limit replies are still recognizable.
		return &entity.WhoisLookup{Record: entity.WhoisRecord{}, Raw: r.raw}, nil
	}
	return &entity.WhoisLookup{Record: normalizeParsed(info), Raw: r.raw}, nil
}

func normalizeParsed(info whoisparser.WhoisInfo) entity.WhoisRecord {
	record := entity.WhoisRecord{}
	if d := info.Domain; d != nil {
		record.SetString(entity.WhoisDomainName, d.Domain)
		record.SetString(entity.WhoisCreationDate, d.CreatedDate)
		record.SetString(entity.WhoisUpdatedDate, d.UpdatedDate)
		record.SetString(entity.WhoisExpirationDate, d.ExpirationDate)
		record.SetString(entity.WhoisServer, d.WhoisServer)
		record.SetList(entity.WhoisStatus, d.Status)
		record.SetList(entity.WhoisNameServer, d.NameServers)
	}
	if r := info.Registrar; r != nil {
		name := r.Name
		if name == "" {
			name = r.Organization
		}
		record.SetString(entity.WhoisRegistrar, name)
		record.SetString(entity.WhoisRegistrarURL, r.ReferralURL)
	}
	if r := info.Registrant; r != nil {
		record.SetString(entity.WhoisRegistrantName, r.Name)
		record.SetString(entity.WhoisRegistrantOrganization, r.Organization)
		record.SetString(entity.WhoisRegistrantCountry, r.Country)
	}
	return record
}
