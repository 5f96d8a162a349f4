package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/mcp-protocol/authorization"
	"github.com/viant/mcp-storagekit/policy"
	"github.com/viant/scy/auth/jwt/verifier"
)

var defaultNs = "default"

// IsDefaultNamespace reports whether the namespace is the shared default.
func IsDefaultNamespace(namespace string) bool {
	return namespace == defaultNs
}

// Service derives the caller namespace owning storage connectors and
// credentials. Connectors live per-namespace so that one caller's secrets
// and definitions are invisible to another.
type Service struct {
	Policy          *policy.Policy
	verifierService *verifier.Service
}

// Namespace resolves the caller's namespace from the request context. With
// no OAuth2 configuration every caller shares the default namespace.
func (s *Service) Namespace(ctx context.Context) (string, error) {
	if s == nil || s.Policy == nil || s.Policy.Oauth2Config == nil {
		return defaultNs, nil
	}

	// The token is propagated from the transport layer by the MCP auth
	// middleware under authorization.TokenKey; both the legacy plain string
	// and *authorization.Token forms are accepted.
	tokenValue := ctx.Value(authorization.TokenKey)
	if tokenValue == nil {
		return "", fmt.Errorf("failed to get token from context: missing value")
	}
	var tokenString string
	switch tv := tokenValue.(type) {
	case string:
		tokenString = tv
	case *authorization.Token:
		tokenString = tv.Token
	default:
		return "", fmt.Errorf("failed to get token from context, unsupported type %T", tokenValue)
	}

	if s.verifierService == nil {
		// No verifier configured: best-effort extraction of standard claims
		// without validating the signature, enough for namespace derivation
		// in test environments without public keys.
		if ns := unsafeSubjectOrEmail(tokenString); ns != "" {
			return ns, nil
		}
		return "", fmt.Errorf("unable to extract namespace from token")
	}

	claims, err := s.verifierService.VerifyClaims(ctx, tokenString)
	if err != nil {
		return "", err
	}
	namespace := claims.Email
	if namespace == "" {
		namespace = claims.Subject
	}
	if namespace == "" {
		return "", fmt.Errorf("namespace is empty in token claims")
	}
	return namespace, nil
}

// unsafeSubjectOrEmail reads the "email" or "sub" claim without verifying
// the token signature; only used when no verifier service is configured.
func unsafeSubjectOrEmail(tokenString string) string {
	var claimMap jwt.MapClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claimMap); err != nil {
		return ""
	}
	if email, _ := claimMap["email"].(string); email != "" {
		return email
	}
	if sub, _ := claimMap["sub"].(string); sub != "" {
		return sub
	}
	return ""
}

// New builds the auth service for the given policy.
func New(policy *policy.Policy) *Service {
	ret := &Service{Policy: policy}
	if policy.Oauth2Config != nil {
		//TODO load cert from authorization server if presents
	}
	return ret
}
