package domain

import (
	"strings"
	"time"
)

// Tenant is a marina.
type Tenant struct {
	ID   int64
	Slug string
	Name string
}

// Boat is a vessel registered at a marina.
type Boat struct {
	ID             string
	Name           string
	Manufacturer   string
	Location       string
	OwnerName      string
	OwnerSurname   string
	CaptainName    string
	CaptainSurname string
	Archived       bool
}

// Owner returns the owner's full name.
func (b Boat) Owner() string { return joinName(b.OwnerName, b.OwnerSurname) }

// Captain returns the captain's full name.
func (b Boat) Captain() string { return joinName(b.CaptainName, b.CaptainSurname) }

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// BoatFilter narrows a boat listing.
type BoatFilter struct {
	Archived bool
	Query    string
}

// Vendor is a contractor company allowed on site.
type Vendor struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	VendorType string
	Status     string
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// VendorFilter narrows a vendor listing. Status matches exactly, Type and
// Query as case-insensitive substrings.
type VendorFilter struct {
	Query  string
	Status string
	Type   string
}

// MaxVendorRows caps vendor listings.
const MaxVendorRows = 500

// SourceDiagnostic describes what one upstream table holds for a tenant.
// Rows is -1 when the count is unknown.
type SourceDiagnostic struct {
	Source  string
	Rows    int64
	Columns []string
	Sample  []Row
	Err     string
}

// DiagnosticSampleSize is the number of rows sampled per source.
const DiagnosticSampleSize = 5
