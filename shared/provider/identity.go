package provider

// ID identifies an external identity provider.
type ID string

const (
	Google ID = "google"
)

// Identity is the normalized claim asserted by a provider about a signed-in user.
// It is consumed once by account resolution and never persisted as is.
type Identity struct {
	Provider       ID
	ProviderUserID string
	Email          string
	Name           string
	Picture        string
}
