package flows

import (
	"context"
	"errors"

	"github.com/hexlayer/tokenvault/tokenstore"
)

// RunRevoke invalidates a refresh token by consuming its store record.
// Revocation is deliberately not idempotent: revoking a token whose record
// is already gone is classified as FailureRecordNotFound, which surfaces as
// an authorization failure rather than a quiet success.
func RunRevoke(ctx context.Context, d Deps, refreshToken string) Result {
	claims, err := d.JWT.ParseRefresh(refreshToken)
	if err != nil {
		return failure(FailureTokenInvalid, err)
	}

	if _, err := d.Store.Consume(ctx, claims.TokenID); err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return failure(FailureRecordNotFound, err)
		}
		return failure(FailureInternal, err)
	}
	return Result{}
}
