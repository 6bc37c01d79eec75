package webhook

import (
	"crypto/subtle"
	"strings"

	"go.uber.org/zap"
)

// Verifier checks the shared bearer token on inbound order-completed
// requests. An empty configured token leaves the endpoint open, which is the
// usual setup when the host platform and this service share a network.
type Verifier struct {
	token  string
	logger *zap.Logger
}

// NewVerifier creates a Verifier for the given shared token.
func NewVerifier(token string, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{token: token, logger: logger}
}

// Verify reports whether the Authorization header carries the expected
// bearer token.
func (v *Verifier) Verify(authorization string) bool {
	if v.token == "" {
		return true
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return false
	}
	presented := strings.TrimPrefix(authorization, prefix)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(v.token)) == 1
}
