package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+91 98765 43210"))
	assert.NoError(t, ValidatePhone("(020) 555-1234"))
	assert.ErrorIs(t, ValidatePhone("abc"), ErrPhoneInvalid)
	assert.ErrorIs(t, ValidatePhone("123"), ErrPhoneInvalid)
	assert.ErrorIs(t, ValidatePhone("+91 98765 43210 99"), ErrPhoneInvalid)
	assert.ErrorIs(t, ValidatePhone("   "), ErrPhoneRequired)
}

func TestClientValidateOrder(t *testing.T) {
	c := &Client{Name: " ", Phone: ""}
	assert.ErrorIs(t, c.Validate(), ErrNameRequired)

	c.Name = "Asha"
	assert.ErrorIs(t, c.Validate(), ErrPhoneRequired)

	c.Phone = "12ab"
	assert.ErrorIs(t, c.Validate(), ErrPhoneInvalid)

	c.Phone = "9876543210"
	assert.NoError(t, c.Validate())
}

func TestClientNormalize(t *testing.T) {
	c := &Client{Name: "  Asha ", Phone: " 9876543210 ", Email: " Asha.K @Example.COM ", Address: " Pune "}
	c.Normalize()

	assert.Equal(t, "Asha", c.Name)
	assert.Equal(t, "9876543210", c.Phone)
	assert.Equal(t, "asha.k@example.com", c.Email)
	assert.Equal(t, "Pune", c.Address)
}

func TestClientMatches(t *testing.T) {
	vip := &Client{Name: "Ravi Kumar", Phone: "98765 43210", Email: "ravi@example.com", IsVIP: true}
	regular := &Client{Name: "Meena", Phone: "91234 56789"}

	assert.True(t, vip.Matches("ravi", ClientFilterAll))
	assert.True(t, vip.Matches("43210", ClientFilterVIP))
	assert.True(t, vip.Matches("EXAMPLE", ClientFilterAll))
	assert.False(t, vip.Matches("", ClientFilterRegular))
	assert.True(t, regular.Matches("", ClientFilterRegular))
	assert.False(t, regular.Matches("ravi", ClientFilterAll))
}

func TestParseEventType(t *testing.T) {
	got, ok := ParseEventType(" Wedding ")
	assert.True(t, ok)
	assert.Equal(t, EventTypeWedding, got)

	got, ok = ParseEventType("housewarming")
	assert.False(t, ok)
	assert.Equal(t, EventTypeOther, got)

	assert.Equal(t, "Corporate", EventTypeCorporate.Label())
}

func TestParseGuests(t *testing.T) {
	n, err := ParseGuests(" 50 ")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 50, *n)

	n, err = ParseGuests("")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = ParseGuests("fifty")
	assert.ErrorIs(t, err, ErrGuestsNotNumeric)

	_, err = ParseGuests("-4")
	assert.ErrorIs(t, err, ErrGuestsNotNumeric)
}

func TestNewEvent(t *testing.T) {
	guests := 120
	e := NewEvent("c1", EventDetails{
		EventName:    "  Sangeet ",
		Date:         "2025-02-14",
		Guests:       &guests,
		EventAddress: " Lawn 3 ",
	}, []string{"Paneer Tikka", "Gulab Jamun"})

	assert.Equal(t, "c1", e.ClientID)
	assert.Equal(t, "Sangeet", e.EventName)
	assert.Equal(t, "Lawn 3", e.EventAddress)
	assert.Equal(t, EventTypeOther, e.EventType)
	assert.Len(t, e.MenuItems, 2)
	assert.True(t, e.HasMenuItem("Gulab Jamun"))
	assert.False(t, e.CreatedAt.IsZero())
	assert.NoError(t, e.Validate())
}

func TestEventValidate(t *testing.T) {
	e := &Event{EventName: " "}
	assert.ErrorIs(t, e.Validate(), ErrEventNameRequired)

	e.EventName = "Diwali Party"
	e.Date = "31/10/2024"
	assert.ErrorIs(t, e.Validate(), ErrDateInvalid)

	e.Date = "2024-10-31"
	assert.NoError(t, e.Validate())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrPhoneInvalid))
	assert.False(t, IsValidation(assert.AnError))
}
