package flows

import "context"

// RunIssue mints an access/refresh pair for the subject and persists the
// refresh record. The two tokens carry distinct IDs: the refresh ID keys
// the store record, the access ID only labels the short-lived token.
// Both lifetimes are anchored to the same clock instant.
func RunIssue(ctx context.Context, d Deps, sub *Subject) Result {
	now := d.Now()
	accessID := d.NewTokenID()
	refreshID := d.NewTokenID()

	access, err := d.JWT.CreateAccess(sub.ID, sub.Email, sub.FullName, accessID, now)
	if err != nil {
		return failure(FailureInternal, err)
	}
	refresh, err := d.JWT.CreateRefresh(refreshID, sub.ID, now)
	if err != nil {
		return failure(FailureInternal, err)
	}

	// The record TTL mirrors the refresh token's own expiry, so the store
	// evicts the record at the same moment the signature check would start
	// rejecting the token.
	if err := d.Store.Save(ctx, refreshID, sub.ID, d.JWT.RefreshTTL()); err != nil {
		return failure(FailureInternal, err)
	}

	return Result{Pair: &IssuedPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessID:     accessID,
		TokenID:      refreshID,
		ExpiresIn:    int64(d.JWT.AccessTTL().Seconds()),
	}}
}
