package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docvault/internal/model"
)

func share(email string, perm model.PermissionLevel, revoked bool) model.DocumentShare {
	s := model.DocumentShare{GranteeEmail: email, Permission: perm}
	if revoked {
		t := time.Now().UTC()
		s.RevokedAt = &t
	}
	return s
}

func doc(access model.AccessType, owner string, shares ...model.DocumentShare) *model.Document {
	return &model.Document{ID: "doc-1", Access: access, OwnerEmail: owner, Shares: shares}
}

func TestCanRead(t *testing.T) {
	alice := model.Actor{Email: "alice@x.com", Role: model.RoleContributor}
	bob := model.Actor{Email: "bob@x.com", Role: model.RoleViewer}

	tests := []struct {
		name  string
		doc   *model.Document
		actor model.Actor
		want  bool
	}{
		{
			name:  "owner reads private",
			doc:   doc(model.AccessPrivate, alice.Email),
			actor: alice,
			want:  true,
		},
		{
			name:  "stranger denied on private",
			doc:   doc(model.AccessPrivate, alice.Email),
			actor: bob,
			want:  false,
		},
		{
			name:  "anyone reads public",
			doc:   doc(model.AccessPublic, alice.Email),
			actor: bob,
			want:  true,
		},
		{
			name:  "restricted without share behaves like private",
			doc:   doc(model.AccessRestricted, alice.Email),
			actor: bob,
			want:  false,
		},
		{
			name:  "read-level share grants read",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionRead, false)),
			actor: bob,
			want:  true,
		},
		{
			name:  "write-level share also grants read",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionWrite, false)),
			actor: bob,
			want:  true,
		},
		{
			name:  "revoked share grants nothing",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionWrite, true)),
			actor: bob,
			want:  false,
		},
		{
			name:  "admin bypass on private",
			doc:   doc(model.AccessPrivate, alice.Email),
			actor: model.Actor{Email: "root@x.com", Role: model.RoleAdmin},
			want:  true,
		},
		{
			name:  "manager bypass on restricted",
			doc:   doc(model.AccessRestricted, alice.Email),
			actor: model.Actor{Email: "mgr@x.com", Role: model.RoleManager},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.doc, tt.actor))
		})
	}
}

func TestCanWrite(t *testing.T) {
	alice := model.Actor{Email: "alice@x.com", Role: model.RoleContributor}
	bob := model.Actor{Email: "bob@x.com", Role: model.RoleViewer}

	tests := []struct {
		name  string
		doc   *model.Document
		actor model.Actor
		want  bool
	}{
		{
			name:  "owner writes own document",
			doc:   doc(model.AccessPrivate, alice.Email),
			actor: alice,
			want:  true,
		},
		{
			name:  "public visibility never grants write",
			doc:   doc(model.AccessPublic, alice.Email),
			actor: bob,
			want:  false,
		},
		{
			name:  "read-level share does not grant write",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionRead, false)),
			actor: bob,
			want:  false,
		},
		{
			name:  "write-level share grants write",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionWrite, false)),
			actor: bob,
			want:  true,
		},
		{
			name:  "revoked write share denied",
			doc:   doc(model.AccessPrivate, alice.Email, share(bob.Email, model.PermissionWrite, true)),
			actor: bob,
			want:  false,
		},
		{
			name:  "manager bypass",
			doc:   doc(model.AccessPrivate, alice.Email),
			actor: model.Actor{Email: "mgr@x.com", Role: model.RoleManager},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWrite(tt.doc, tt.actor))
		})
	}
}

func TestCanManageShares(t *testing.T) {
	owner := model.Actor{Email: "alice@x.com", Role: model.RoleViewer}
	d := doc(model.AccessPrivate, owner.Email, share("bob@x.com", model.PermissionWrite, false))

	assert.True(t, CanManageShares(d, owner))
	assert.True(t, CanManageShares(d, model.Actor{Email: "a@x.com", Role: model.RoleAdmin}))
	assert.True(t, CanManageShares(d, model.Actor{Email: "m@x.com", Role: model.RoleManager}))
	// A write-level grantee can edit but not re-share.
	assert.False(t, CanManageShares(d, model.Actor{Email: "bob@x.com", Role: model.RoleContributor}))
}

func TestRolePrivilege(t *testing.T) {
	assert.True(t, model.RoleAdmin.Privileged())
	assert.True(t, model.RoleManager.Privileged())
	assert.False(t, model.RoleContributor.Privileged())
	assert.False(t, model.RoleViewer.Privileged())
	assert.False(t, model.Role("Intern").Valid())
}
