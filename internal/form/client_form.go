package form

import (
	"context"
	"fmt"

	"github.com/andy/caterbook/internal/domain"
	"github.com/andy/caterbook/internal/repository"
)

// ClientForm edits a single client. An unbound form creates a new client on
// save; a bound form updates the client it was loaded from.
type ClientForm struct {
	Name    string
	Phone   string
	Email   string
	Address string
	IsVIP   bool

	// OnSaved is called after every successful save
	OnSaved func(*domain.Client)

	id   string
	repo repository.ClientRepository
}

var _ Saveable[domain.Client] = (*ClientForm)(nil)

// NewClientForm creates an empty form that creates clients
func NewClientForm(repo repository.ClientRepository) *ClientForm {
	return &ClientForm{repo: repo}
}

// EditClientForm creates a form bound to an existing client
func EditClientForm(repo repository.ClientRepository, c *domain.Client) *ClientForm {
	f := NewClientForm(repo)
	f.Bind(c)
	return f
}

// Bind loads a saved client into the form
func (f *ClientForm) Bind(c *domain.Client) {
	f.id = c.ID
	f.Name = c.Name
	f.Phone = c.Phone
	f.Email = c.Email
	f.Address = c.Address
	f.IsVIP = c.IsVIP
}

// ID returns the bound client ID, or "" for a new client
func (f *ClientForm) ID() string {
	return f.id
}

// SetEmail stores the email in normalized form
func (f *ClientForm) SetEmail(email string) {
	f.Email = domain.NormalizeEmail(email)
}

// Reset clears the editable fields and unbinds the form
func (f *ClientForm) Reset() {
	*f = ClientForm{repo: f.repo, OnSaved: f.OnSaved}
}

func (f *ClientForm) client() *domain.Client {
	return &domain.Client{
		ID:      f.id,
		Name:    f.Name,
		Phone:   f.Phone,
		Email:   f.Email,
		Address: f.Address,
		IsVIP:   f.IsVIP,
	}
}

// Validate checks name, then phone presence, then phone format
func (f *ClientForm) Validate() error {
	return f.client().Validate()
}

// Save validates and persists the client in a single store update. Creating
// resets the form; updating keeps the fields as entered.
func (f *ClientForm) Save(ctx context.Context) (*domain.Client, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c := f.client()
	creating := c.ID == ""
	if creating {
		if err := f.repo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
		f.Reset()
	} else {
		if err := f.repo.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
	}

	if f.OnSaved != nil {
		f.OnSaved(c)
	}
	return c, nil
}
