// Package address formats shipping contacts into mailing-label lines.
package address

import (
	"strings"

	"github.com/rezonia/customs-invoice/internal/model"
)

// FromContact converts a contact into an ordered list of non-blank display
// lines: name, up to three address lines, a combined "City, State  ZIP" line,
// country, "Phone: <number>" when present, and the email address.
//
// Name and the first address line are mandatory; everything else is omitted
// silently when blank.
func FromContact(c *model.Contact) ([]string, error) {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return nil, model.NewValidationError("contact.name", "contact name is missing")
	}
	if strings.TrimSpace(c.Addr1) == "" {
		return nil, model.NewValidationError("contact.addr1", "address line 1 is missing")
	}

	lines := []string{
		c.Name,
		c.Addr1,
		c.Addr2,
		c.Addr3,
		cityStateZip(c),
		c.Country,
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}
	lines = append(lines, c.Email)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// cityStateZip builds the combined "City, State  ZIP" line. All three parts
// are optional; the comma only separates city from state and the zip is always
// preceded by a double space.
func cityStateZip(c *model.Contact) string {
	var b strings.Builder
	if c.City != "" {
		b.WriteString(c.City)
	}
	if c.State != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.State)
	}
	if c.Zip != "" {
		b.WriteString("  " + c.Zip)
	}
	return b.String()
}
