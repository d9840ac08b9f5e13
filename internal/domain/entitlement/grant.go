package entitlement

import "time"

// Grant represents a single entitlement grant attached to the account,
// as returned by the remote entitlement service.
type Grant struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Serial      string    `json:"serial"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	// Certificate is the PEM payload backing this grant. Opaque to us;
	// the cert refresher writes it to disk as-is.
	Certificate string `json:"certificate,omitempty"`
}

// Account is the remote account record for a consumer.
type Account struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	AutoHeal bool   `json:"autoheal"`
}

// ComplianceStatus is the server's view of the account's current coverage.
// CompliantUntil is nil when the server did not report an expiry instant.
type ComplianceStatus struct {
	Status         string     `json:"status"`
	Compliant      bool       `json:"compliant"`
	CompliantUntil *time.Time `json:"compliantUntil,omitempty"`
}
