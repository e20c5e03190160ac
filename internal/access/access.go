// Package access holds the pure authorization predicates for documents.
// Both checks are evaluated over state loaded at call time; results are never
// cached because shares can be revoked between operations.
package access

import "docvault/internal/model"

// CanRead reports whether the actor may read the document.
// Admin and Manager read everything. Everyone else needs the document to be
// Public, to own it, or to hold an active share at any permission level.
// doc.Shares must contain the document's active shares.
func CanRead(doc *model.Document, actor model.Actor) bool {
	if actor.Role.Privileged() {
		return true
	}
	if doc.Access == model.AccessPublic {
		return true
	}
	if doc.OwnerEmail == actor.Email {
		return true
	}
	return activeShare(doc, actor.Email) != nil
}

// CanWrite reports whether the actor may modify or delete the document.
// Visibility never grants write: only privilege, ownership, or an active
// Write-level share do.
func CanWrite(doc *model.Document, actor model.Actor) bool {
	if actor.Role.Privileged() {
		return true
	}
	if doc.OwnerEmail == actor.Email {
		return true
	}
	s := activeShare(doc, actor.Email)
	return s != nil && s.Permission == model.PermissionWrite
}

// CanManageShares reports whether the actor may create, list, or revoke
// shares on the document. Share administration is reserved for the owner and
// privileged roles; a Write-level grantee cannot re-share.
func CanManageShares(doc *model.Document, actor model.Actor) bool {
	return actor.Role.Privileged() || doc.OwnerEmail == actor.Email
}

func activeShare(doc *model.Document, email string) *model.DocumentShare {
	for i := range doc.Shares {
		s := &doc.Shares[i]
		if s.GranteeEmail == email && s.Active() {
			return s
		}
	}
	return nil
}
