package checkout

import (
	"sort"

	"ddsync/internal/gocardless"
)

// Address is one location-typed postal address from the donation form.
type Address struct {
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	CountryCode   string `json:"country_code,omitempty"` // ISO 3166-1 alpha-2
}

// Forms can carry several location-typed values for the same field. The
// billing one is the best fit for a direct debit mandate, then Primary, then
// whatever is there. Email and address are chosen independently.
var locationPreference = []string{"billing", "Primary"}

func preferredEmail(emails map[string]string) string {
	if len(emails) == 0 {
		return ""
	}
	for _, key := range locationPreference {
		if v, ok := emails[key]; ok {
			return v
		}
	}
	return emails[firstKey(emails)]
}

func preferredAddress(addresses map[string]Address) *Address {
	if len(addresses) == 0 {
		return nil
	}
	for _, key := range locationPreference {
		if v, ok := addresses[key]; ok {
			return &v
		}
	}
	v := addresses[firstKeyAddr(addresses)]
	return &v
}

func firstKey(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func firstKeyAddr(m map[string]Address) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func buildPrefilledCustomer(req *BeginRequest) *gocardless.PrefilledCustomer {
	customer := &gocardless.PrefilledCustomer{
		GivenName:  req.FirstName,
		FamilyName: req.LastName,
	}
	empty := req.FirstName == "" && req.LastName == ""

	if addr := preferredAddress(req.Addresses); addr != nil {
		customer.AddressLine1 = addr.StreetAddress
		customer.City = addr.City
		customer.PostalCode = addr.PostalCode
		customer.CountryCode = addr.CountryCode
		empty = false
	}
	if email := preferredEmail(req.Emails); email != "" {
		customer.Email = email
		empty = false
	}

	if empty {
		return nil
	}
	return customer
}
