package repository

import (
	"context"
	"errors"

	"wedding/guesthub/internal/model"
)

// ErrListingUnavailable is returned by an AccountLister that cannot serve a
// privileged listing (not configured, or refused by the provider).
var ErrListingUnavailable = errors.New("privileged account listing unavailable")

// AccountLister enumerates every account known to the identity provider.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]model.AccountIdentity, error)
}
