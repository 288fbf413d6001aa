// Package auth provides JWT verification and identity handling for the
// TaskHub API.
//
// Tokens are issued by an external identity provider and signed with RS256.
// The [Verifier] checks each bearer token against the provider's published
// JSON Web Key Set, which is cached in-process by [KeySetCache] and refreshed
// transparently when keys rotate.
//
// Security:
//
// Verification is strict and ordered: the token must parse, carry a key ID
// that resolves against the key set, have a valid RS256 signature, be
// unexpired, and name a non-empty subject. A failure at any step rejects the
// token; later steps are never reached. Claims from a rejected token are
// never exposed to callers.
package auth

import (
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// Identity represents an authenticated caller. It is immutable after
// construction and safe for concurrent use.
type Identity struct {
	subject     string
	email       string
	displayName string
}

// NewIdentity constructs an Identity from verified token claims. The subject
// is the stable unique identifier for the caller; email and displayName are
// optional profile claims and may be empty.
//
// Returns a *[taskerr.Error] with code [taskerr.CodeAuthenticationMissingSubject]
// if subject is empty. A token without a subject cannot be tied to an owner
// and must never produce an identity.
func NewIdentity(subject, email, displayName string) (Identity, error) {
	if subject == "" {
		return Identity{}, taskerr.New(taskerr.CodeAuthenticationMissingSubject, "auth: token subject must not be empty")
	}
	return Identity{
		subject:     subject,
		email:       email,
		displayName: displayName,
	}, nil
}

// SubjectID returns the caller's unique identifier (the token "sub" claim).
// It is never empty for a constructed Identity.
func (i Identity) SubjectID() string { return i.subject }

// Email returns the caller's email claim, or an empty string if the token
// carried none.
func (i Identity) Email() string { return i.email }

// DisplayName returns the caller's name claim, or an empty string if the
// token carried none.
func (i Identity) DisplayName() string { return i.displayName }

// Owns reports whether this identity owns the resources under the given
// user ID. Ownership is exact string equality on the subject.
func (i Identity) Owns(userID string) bool {
	return i.subject != "" && i.subject == userID
}
