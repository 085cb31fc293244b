package domain

import "errors"

// Validation errors. Each maps to a distinct message shown to the user.
var (
	ErrNameRequired      = errors.New("name is required")
	ErrPhoneRequired     = errors.New("phone number is required")
	ErrPhoneInvalid      = errors.New("enter a valid phone number")
	ErrEventNameRequired = errors.New("event name is required")
	ErrGuestsNotNumeric  = errors.New("guests must be a number")
	ErrDateInvalid       = errors.New("date not recognised")
	ErrSaveClientFirst   = errors.New("save the client first")
	ErrSelectClient      = errors.New("select an existing client")
)

// IsValidation returns true for errors caused by user input rather than storage
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNameRequired,
		ErrPhoneRequired,
		ErrPhoneInvalid,
		ErrEventNameRequired,
		ErrGuestsNotNumeric,
		ErrDateInvalid,
		ErrSaveClientFirst,
		ErrSelectClient,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
