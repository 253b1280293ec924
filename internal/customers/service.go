// Package customers records customer sign-ups. In secure mode the free-text
// fields are HTML-escaped before storage; in vulnerable mode they are kept
// verbatim. Records never change once stored.
package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/dmitrijs2005/commsshield/internal/mode"
	"github.com/dmitrijs2005/commsshield/internal/store"
)

const (
	unknownPackage = "Unknown Package"
	unknownSector  = "Unknown Sector"
)

// Input carries the customer form fields. PackageID and SectorID are not
// checked against the catalogs.
type Input struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	PackageID int
	SectorID  int
}

// Service stores and renders customer records, sanitising input in secure
// mode only.
type Service struct {
	store  *store.Store
	modes  *mode.Controller
	logger logging.Logger

	secure     Sanitizer
	vulnerable Sanitizer
}

// NewService returns a Service over st, reading the mode from modes.
func NewService(st *store.Store, modes *mode.Controller, logger logging.Logger) *Service {
	return &Service{
		store:      st,
		modes:      modes,
		logger:     logger.With("component", "customers"),
		secure:     escaping{},
		vulnerable: passthrough{},
	}
}

func (s *Service) sanitizer() Sanitizer {
	if s.modes.Secure() {
		return s.secure
	}
	return s.vulnerable
}

// Add stores a new customer, sanitizing name, email, phone and address
// according to the mode in effect right now.
func (s *Service) Add(ctx context.Context, in Input) store.Customer {
	san := s.sanitizer()

	c := s.store.InsertCustomer(store.Customer{
		Name:      san.Sanitize(in.Name),
		Email:     san.Sanitize(in.Email),
		Phone:     san.Sanitize(in.Phone),
		Address:   san.Sanitize(in.Address),
		PackageID: in.PackageID,
		SectorID:  in.SectorID,
	})

	s.logger.Info(ctx, "customer added", "id", c.ID, "mode", string(s.modes.Current()))
	return c
}

// List returns every customer in insertion order.
func (s *Service) List(ctx context.Context) []store.Customer {
	return s.store.ListCustomers()
}

// Packages returns the package catalogue.
func (s *Service) Packages() []store.Package {
	return s.store.ListPackages()
}

// Sectors returns the sector catalogue.
func (s *Service) Sectors() []store.Sector {
	return s.store.ListSectors()
}

// PackageName resolves a package reference, or "Unknown Package".
func (s *Service) PackageName(id int) string {
	p, err := s.store.PackageByID(id)
	if err != nil {
		return unknownPackage
	}
	return p.Name
}

// SectorName resolves a sector reference, or "Unknown Sector".
func (s *Service) SectorName(id int) string {
	sec, err := s.store.SectorByID(id)
	if err != nil {
		return unknownSector
	}
	return sec.Name
}

// RenderHTML writes c as a table row. Stored text goes in as markup without
// further escaping: secure records were escaped on the way in, vulnerable
// ones were not, and that difference is what the row shows.
func (s *Service) RenderHTML(c store.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<tr><td>%d</td>", c.ID)
	for _, field := range []string{c.Name, c.Email, c.Phone, c.Address} {
		b.WriteString("<td>")
		b.WriteString(field)
		b.WriteString("</td>")
	}
	fmt.Fprintf(&b, "<td>%s</td><td>%s</td></tr>", Escape(s.PackageName(c.PackageID)), Escape(s.SectorName(c.SectorID)))
	return b.String()
}
