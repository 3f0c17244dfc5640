// Package authz holds the ownership policy for URL records. The decision
// is pure: it depends only on the requester and the target record.
package authz

import (
	"fmt"

	"github.com/avoronov/tinyapp/internal/models"
	"github.com/avoronov/tinyapp/internal/user"
)

// Action identifies the operation being attempted on a URL record.
type Action string

// The actions governed by the ownership policy. Listing and creating
// are not here: they have no target record and only require a
// non-anonymous requester.
const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Authorize decides whether requester may perform action on record.
// A nil requester is an anonymous request; a nil record is an absent
// target. The checks run in fixed precedence: absent record, then
// missing identity, then ownership. Returned errors wrap the sentinels
// from the models package.
func Authorize(action Action, requester *user.User, record *models.URLRecord) error {
	switch {
	case record == nil:
		return fmt.Errorf("%s: %w", action, models.ErrNotFound)
	case requester == nil:
		return fmt.Errorf("%s: %w", action, models.ErrUnauthenticated)
	case record.OwnerID != requester.ID:
		return fmt.Errorf("%s: %w", action, models.ErrForbidden)
	}

	return nil
}
