package entity

import (
	"encoding/json"
	"time"
)

// DomainReport mirrors the `domains` table: one row per scanned domain,
// with one JSON slot per analyzer. A nil slot serializes as null.
type DomainReport struct {
	ID              int64           `json:"id"`
	Domain          string          `json:"domain"`
	RedirectData    json.RawMessage `json:"redirectData"`
	BrokenLinksData json.RawMessage `json:"brokenLinksData"`
	SecurityData    json.RawMessage `json:"securityData"`
	RobotsData      json.RawMessage `json:"robotsData"`
	AIData          json.RawMessage `json:"aiData"`
	WhoisData       json.RawMessage `json:"whoisData"`
	LastScannedAt   *time.Time      `json:"lastScannedAt"`
	CreatedAt       *time.Time      `json:"createdAt"`
}

// DomainUpdate carries the slots produced by one scan. Nil slots leave the
// stored value untouched.
type DomainUpdate struct {
	Domain          string
	RedirectData    json.RawMessage
	BrokenLinksData json.RawMessage
	SecurityData    json.RawMessage
	RobotsData      json.RawMessage
	AIData          json.RawMessage
	WhoisData       json.RawMessage
}

// SetSlot stores raw under the slot owned by tool.
func (u *DomainUpdate) SetSlot(tool Tool, raw json.RawMessage) {
	switch tool {
	case ToolRedirect:
		u.RedirectData = raw
	case ToolBrokenLinks:
		u.BrokenLinksData = raw
	case ToolSecurity:
		u.SecurityData = raw
	case ToolRobots:
		u.RobotsData = raw
	case ToolAI:
		u.AIData = raw
	case ToolWhois:
		u.WhoisData = raw
	}
}

// ApplyTo merges the non-nil slots of u into r and stamps the scan time.
func (u *DomainUpdate) ApplyTo(r *DomainReport, now time.Time) {
	r.Domain = u.Domain
	r.RedirectData = pick(u.RedirectData, r.RedirectData)
	r.BrokenLinksData = pick(u.BrokenLinksData, r.BrokenLinksData)
	r.SecurityData = pick(u.SecurityData, r.SecurityData)
	r.RobotsData = pick(u.RobotsData, r.RobotsData)
	r.AIData = pick(u.AIData, r.AIData)
	r.WhoisData = pick(u.WhoisData, r.WhoisData)
	r.LastScannedAt = &now
	if r.CreatedAt == nil {
		created := now
		r.CreatedAt = &created
	}
}

func pick(next, prev json.RawMessage) json.RawMessage {
	if next != nil {
		return next
	}
	return prev
}
