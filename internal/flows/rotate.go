package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/hexlayer/tokenvault/tokenstore"
)

// RunRotate exchanges a refresh token for a fresh pair. The store record
// is consumed atomically before anything is reissued, so a replayed token
// loses the race no matter how the concurrent calls interleave.
func RunRotate(ctx context.Context, d Deps, refreshToken string) Result {
	claims, err := d.JWT.ParseRefresh(refreshToken)
	if err != nil {
		return failure(FailureTokenInvalid, err)
	}

	userID, err := d.Store.Consume(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return failure(FailureRecordNotFound, err)
		}
		return failure(FailureInternal, err)
	}
	if userID != claims.UserID {
		// The record and the token disagree about the subject. The record
		// is already gone, which is the safe side to fail on.
		return failure(FailureTokenInvalid, fmt.Errorf("token subject %q does not match record", claims.UserID))
	}

	sub, ok, err := d.ResolveUser(ctx, userID)
	if err != nil {
		return failure(FailureInternal, err)
	}
	if !ok {
		return failure(FailureUserInvalid, fmt.Errorf("user %q no longer exists", userID))
	}

	return RunIssue(ctx, d, sub)
}
