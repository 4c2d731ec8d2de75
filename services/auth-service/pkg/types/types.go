// Package types holds the request and response messages of the auth service.
package types

// PublicUser is the user projection returned to clients.
type PublicUser struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// GoogleSignInRequest carries a Google ID token collected by the client.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleSignInResponse carries the issued session token and the signed-in user.
type GoogleSignInResponse struct {
	SessionToken string      `json:"sessionToken"`
	User         *PublicUser `json:"user"`
}

// MeRequest is empty; the session credential travels in the authorization metadata.
type MeRequest struct{}

// MeResponse holds the current user, or nil for an anonymous caller.
type MeResponse struct {
	User *PublicUser `json:"user"`
}
