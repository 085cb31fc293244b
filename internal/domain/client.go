package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// phonePattern is a loose international pattern: 7-15 characters of digits,
// spaces, and +-() punctuation.
var phonePattern = regexp.MustCompile(`^[+\-()\s\d]{7,15}$`)

type Client struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	IsVIP   bool   `json:"isVip"`
}

// NewClient creates a client with trimmed required fields
func NewClient(name, phone string) *Client {
	return &Client{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}
}

// Saved returns true once the client has been persisted and has an ID
func (c *Client) Saved() bool {
	return c.ID != ""
}

// Normalize trims every field and canonicalizes the email
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = NormalizeEmail(c.Email)
	c.Address = strings.TrimSpace(c.Address)
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	return ValidatePhone(c.Phone)
}

// ValidatePhone checks a phone number is present and loosely well formed
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return ErrPhoneInvalid
	}
	return nil
}

// NormalizeEmail strips all whitespace and lower-cases the address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, email))
}

// ClientFilter narrows client lists by VIP status
type ClientFilter string

const (
	ClientFilterAll     ClientFilter = "all"
	ClientFilterVIP     ClientFilter = "vip"
	ClientFilterRegular ClientFilter = "regular"
)

// Matches returns true if the client passes the filter and the search query.
// The query matches name, phone, or email case-insensitively.
func (c *Client) Matches(query string, filter ClientFilter) bool {
	switch filter {
	case ClientFilterVIP:
		if !c.IsVIP {
			return false
		}
	case ClientFilterRegular:
		if c.IsVIP {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Phone), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}
