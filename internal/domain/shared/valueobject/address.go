package valueobject

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

// DefaultCountryCode is used when an address carries no country
const DefaultCountryCode = "DE"

// PostalAddress is a billing or shipping address block.
// It is a plain value; the zero value is an empty address.
type PostalAddress struct {
	Street      string
	Zip         string
	City        string
	CountryCode string
	Supplement  string
}

// NewPostalAddress trims the parts and normalizes the country code.
// An empty country falls back to DefaultCountryCode.
func NewPostalAddress(street, zip, city, countryCode, supplement string) (PostalAddress, error) {
	code, err := NormalizeCountryCode(countryCode)
	if err != nil {
		return PostalAddress{}, err
	}
	return PostalAddress{
		Street:      strings.TrimSpace(street),
		Zip:         strings.TrimSpace(zip),
		City:        strings.TrimSpace(city),
		CountryCode: code,
		Supplement:  strings.TrimSpace(supplement),
	}, nil
}

// IsComplete reports whether the address has enough data to be sent to the ledger
func (a PostalAddress) IsComplete() bool {
	return a.Street != "" && a.City != ""
}

// IsEmpty reports whether no address part is set
func (a PostalAddress) IsEmpty() bool {
	return a.Street == "" && a.Zip == "" && a.City == "" && a.Supplement == ""
}

// CountryOrDefault returns the country code, defaulting to DE
func (a PostalAddress) CountryOrDefault() string {
	if a.CountryCode == "" {
		return DefaultCountryCode
	}
	return a.CountryCode
}

// NormalizeCountryCode validates an ISO 3166-1 alpha-2 code and upper-cases it
func NormalizeCountryCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultCountryCode, nil
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() || len(code) != 2 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Invalid country code: "+code)
	}
	return region.String(), nil
}
