package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress_Lowercases(t *testing.T) {
	assert.Equal(t, "moi ave nairobi", Address("Moi Avenue Nairobi"))
}

func TestAddress_StripsFloorReferences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ordinal before floor", "3rd Floor, City Mall", ", city mall"},
		{"bare digits before floor", "12 floor Biashara St", "biashara st"},
		{"floor before digits", "Floor 2, Uhuru Highway", ", uhuru highway"},
		{"no floor reference", "City Mall", "city mall"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.in))
		})
	}
}

func TestAddress_StripsRoomReferences(t *testing.T) {
	assert.Equal(t, ", kimathi house", Address("101 Room, Kimathi House"))
	assert.Equal(t, "kimathi house ,", Address("Kimathi House , Room 14"))
}

func TestAddress_StripsFillerWords(t *testing.T) {
	assert.Equal(t, "the mall", Address("Next to The Mall"))
	assert.Equal(t, "ngong rd", Address("Off Ngong Road"))
}

func TestAddress_CompressesSuffixes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kenyatta Road", "kenyatta rd"},
		{"Biashara Street", "biashara st"},
		{"Moi Avenue", "moi ave"},
		{"Opposite City Hall", "opp city hall"},
		{"Near City Mall", "nr city mall"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Address(tt.in))
	}
}

func TestAddress_WholeWordOnly(t *testing.T) {
	// "Broadway" contains "road" but not as a whole word.
	assert.Equal(t, "broadway house", Address("Broadway House"))
	// "offices" must not lose its prefix to the "off" rule.
	assert.Equal(t, "equity offices", Address("Equity Offices"))
}

func TestAddress_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "moi ave nairobi", Address("  Moi   Avenue \t Nairobi  "))
}

func TestAddress_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Address(""))
	assert.Equal(t, "", Address("   "))
}

func TestAddress_CombinedExample(t *testing.T) {
	// Floor stripped, "near" compressed, "avenue" compressed.
	assert.Equal(t, ", nr city mall, moi ave", Address("3rd Floor, Near City Mall, Moi Avenue"))
}

func TestAddress_Idempotent(t *testing.T) {
	inputs := []string{
		"3rd Floor, Near City Mall, Moi Avenue",
		"Off Ngong Road, Next to The Junction",
		"Room 5, Biashara Street",
		"",
	}
	for _, in := range inputs {
		once := Address(in)
		assert.Equal(t, once, Address(once), "normalize(%q) must be idempotent", in)
	}
}

func TestIsVirtual(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"Telehealth - Online Consultation", true},
		{"VIRTUAL clinic", true},
		{"Telemedicine desk", true},
		{"telehealth", true},
		{"Online only", true},
		{"Moi Avenue, Nairobi", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsVirtual(tt.address), "address %q", tt.address)
	}
}

func TestCanonicalQuery_Deterministic(t *testing.T) {
	a := CanonicalQuery("Moi Avenue", "Nairobi", "Nairobi County", "Kenya")
	b := CanonicalQuery("Moi Avenue", "Nairobi", "Nairobi County", "Kenya")
	assert.Equal(t, a, b)
	assert.Equal(t, "moi ave, Nairobi, Nairobi County, Kenya", a)
}

func TestCanonicalQuery_TrimsComponents(t *testing.T) {
	got := CanonicalQuery("Moi Avenue", " Nairobi ", " Nairobi County ", "Kenya")
	assert.Equal(t, "moi ave, Nairobi, Nairobi County, Kenya", got)
}

func TestTownQuery(t *testing.T) {
	assert.Equal(t, "Nakuru, Nakuru County, Kenya", TownQuery(" Nakuru ", "Nakuru County", "Kenya"))
}
