package domain

import "strings"

// NormalizeContacts builds the contact directory from every observatory's
// persons. The first person seen for a key wins.
func NormalizeContacts(entries []RawObservatory) ContactDirectory {
	dir := make(ContactDirectory)
	for i := range entries {
		for _, p := range entries[i].Persons {
			id := ContactID(p.FamilyName, p.GivenName)
			if _, dup := dir[id]; dup {
				continue
			}
			dir[id] = normalizeContact(p)
		}
	}
	return dir
}

func normalizeContact(p RawPerson) ContactRecord {
	nameParts := make([]string, 0, 3)
	for _, part := range []string{p.Title, p.GivenName, p.FamilyName} {
		if part != "" {
			nameParts = append(nameParts, part)
		}
	}

	emails := make([]string, 0, 2)
	for _, e := range []string{string(p.Email), string(p.Email2)} {
		if e != "" {
			emails = append(emails, e)
		}
	}

	return ContactRecord{
		Name: strings.Join(nameParts, " "),
		Addresses: []Address{{
			Address1: p.Address1,
			Address2: p.Address2,
			Address3: p.Address3,
			Address4: p.Address4,
			Address5: p.Address5,
			City:     p.City,
			State:    p.State,
			Lang:     p.Lang,
			Postcode: p.Postcode,
			Country:  p.Country,
		}},
		Emails: emails,
		Tel:    p.Phone.Value.String(),
		Tel2:   p.Phone2.Value.String(),
		Fax:    p.Fax.Value.String(),
	}
}

// PreferredAddress returns the English address when one exists, otherwise the
// first address.
func (c ContactRecord) PreferredAddress() (Address, bool) {
	if len(c.Addresses) == 0 {
		return Address{}, false
	}
	for _, a := range c.Addresses {
		if a.Lang == "en" {
			return a, true
		}
	}
	return c.Addresses[0], true
}
