package flows

import "context"

// RunIntrospect verifies an access token's signature and expiry and
// returns the decoded claims. It never consults the store or the user
// directory: access tokens are stateless by design, so a token remains
// valid for its full lifetime even after the refresh token that came with
// it has been revoked.
func RunIntrospect(_ context.Context, d Deps, accessToken string) Result {
	claims, err := d.JWT.ParseAccess(accessToken)
	if err != nil {
		return failure(FailureTokenInvalid, err)
	}

	it := &IntrospectedToken{
		UserID:   claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		TokenID:  claims.TokenID,
	}
	if claims.IssuedAt != nil {
		it.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		it.ExpiresAt = claims.ExpiresAt.Time
	}
	return Result{Introspection: it}
}
