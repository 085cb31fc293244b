package crypto

// Keyring stores the SQLCipher key for the local record database
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "caterbook"
	KeyName     = "records-db-key"

	// EnvKey names the variable consulted where no OS keyring is wired
	EnvKey = "CATERBOOK_DB_KEY"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
