package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContacts_Fixture(t *testing.T) {
	dir := NormalizeContacts(loadObservatories(t))

	require.Len(t, dir, 2)

	anna, ok := dir["Lindqvist_Anna"]
	require.True(t, ok)
	assert.Equal(t, "Dr Anna Lindqvist", anna.Name)
	assert.Equal(t, []string{"anna@example.se"}, anna.Emails, "first occurrence wins")
	assert.Equal(t, "+46 980 400 00", anna.Tel)

	jill, ok := dir["VanDerBerg_Jill"]
	require.True(t, ok, "key must match the observatory contact id")
	want := ContactRecord{
		Name:      "Jill Van Der Berg",
		Addresses: []Address{{City: "Golden", State: "CO"}},
		Emails:    []string{"jvdb@example.gov", "jill@example.org"},
		Tel:       "3035550100",
		Fax:       "303-555-0199",
	}
	if diff := cmp.Diff(want, jill); diff != "" {
		t.Errorf("contact mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeContacts_JoinsObservatoryContacts(t *testing.T) {
	entries := loadObservatories(t)
	dir := NormalizeContacts(entries)
	records, _ := NormalizeObservatories(entries)

	for _, r := range records {
		for _, id := range r.Contacts {
			_, ok := dir[id]
			assert.True(t, ok, "%s references unknown contact %q", r.IAGA, id)
		}
	}
}

func TestContactRecord_PreferredAddress(t *testing.T) {
	c := ContactRecord{Addresses: []Address{
		{City: "Kyoto", Lang: "ja"},
		{City: "Kyoto", Country: "Japan", Lang: "en"},
	}}
	a, ok := c.PreferredAddress()
	require.True(t, ok)
	assert.Equal(t, "en", a.Lang)

	c = ContactRecord{Addresses: []Address{{City: "Kyoto", Lang: "ja"}}}
	a, ok = c.PreferredAddress()
	require.True(t, ok)
	assert.Equal(t, "ja", a.Lang)

	_, ok = ContactRecord{}.PreferredAddress()
	assert.False(t, ok)
}

func TestAddress_Lines(t *testing.T) {
	a := Address{Address1: "Box 812", City: "Kiruna", Lang: "en", Postcode: "981 28", Country: "Sweden"}
	assert.Equal(t, []string{"Box 812", "Kiruna", "981 28", "Sweden"}, a.Lines())
	assert.Empty(t, Address{}.Lines())
}
