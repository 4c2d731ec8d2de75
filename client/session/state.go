package session

import "github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"

// State is one of Unhydrated, Anonymous or Authenticated.
type State interface {
	isState()
}

// Unhydrated is the state before persisted values have been loaded.
type Unhydrated struct{}

// Anonymous means no session token is held.
type Anonymous struct{}

// Authenticated holds the session token and the cached profile, if any.
// A nil User means the profile is not known locally yet.
type Authenticated struct {
	Token string
	User  *types.PublicUser
}

func (Unhydrated) isState()    {}
func (Anonymous) isState()     {}
func (Authenticated) isState() {}
