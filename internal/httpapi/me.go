package httpapi

import (
	"net/http"

	"github.com/StricklySoft/taskhub/pkg/auth"
)

// identityResponse is the serialized form of a verified identity.
type identityResponse struct {
	Subject     string `json:"subject"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Me handles GET /auth/me: it echoes the identity the token verified
// to, so clients can confirm who the API thinks they are.
func Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	writeData(w, http.StatusOK, identityResponse{
		Subject:     identity.SubjectID(),
		Email:       identity.Email(),
		DisplayName: identity.DisplayName(),
	})
}
