package payload

import authtypes "github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"

type GoogleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required,notblank"`
}

type GoogleSignInResponse struct {
	SessionToken string                `json:"sessionToken"`
	User         *authtypes.PublicUser `json:"user"`
}

type MeResponse struct {
	User *authtypes.PublicUser `json:"user"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}
