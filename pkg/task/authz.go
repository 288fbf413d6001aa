package task

import (
	"github.com/StricklySoft/taskhub/pkg/auth"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// requireOwner rejects any request where the authenticated subject is
// not the owner named in the path. It runs before any repository call
// so a forbidden request never touches storage.
func requireOwner(identity auth.Identity, ownerID string) error {
	if !identity.Owns(ownerID) {
		return taskerr.New(taskerr.CodeAuthorizationOwnership,
			"task: you can only access your own tasks")
	}
	return nil
}
