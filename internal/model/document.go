package model

import "time"

// Document represents a stored file in the system.
// Pure domain model with no database-specific dependencies or tags,
// usable across layers (HTTP, service, storage) without persistence coupling.
type Document struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	StoragePath string     `json:"-"`
	OwnerEmail  string     `json:"owner_email"`
	Access      AccessType `json:"access_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Tags and Shares are populated only by detail lookups; Shares holds
	// active (non-revoked) grants exclusively.
	Tags   []Tag           `json:"tags,omitempty"`
	Shares []DocumentShare `json:"shares,omitempty"`
}

// TagNames returns the names of the document's loaded tags.
func (d *Document) TagNames() []string {
	names := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag is a label shared across documents. Names are unique case-insensitively.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentShare is a grant of access to a document for a specific user.
// Revocation is a soft delete: RevokedAt is set, the row is never removed.
type DocumentShare struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id"`
	GranteeEmail string          `json:"grantee_email"`
	Permission   PermissionLevel `json:"permission_level"`
	GrantedBy    string          `json:"granted_by"`
	CreatedAt    time.Time       `json:"created_at"`
	RevokedAt    *time.Time      `json:"revoked_at,omitempty"`
}

// Active reports whether the share has not been revoked.
func (s *DocumentShare) Active() bool {
	return s.RevokedAt == nil
}

// AuditLog is an append-only record of a mutation. DocumentID is a weak
// back-reference: deleting a document nulls it rather than deleting history.
type AuditLog struct {
	ID         string    `json:"id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *string   `json:"entity_id,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	Details    *string   `json:"details,omitempty"`
	DocumentID *string   `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
