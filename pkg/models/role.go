package models

// Permission strings attached to roles. Routes declare which permission
// they require; membership is a plain string comparison.
const (
	PermissionRead   = "READ"
	PermissionCreate = "CREATE"
	PermissionUpdate = "UPDATE"
	PermissionDelete = "DELETE"
)

// Role is a named bucket of permission strings. Roles are seeded
// administratively and read-only from the request path.
type Role struct {
	ID          string   `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name        string   `bson:"name" json:"name" yaml:"name"`
	Permissions []string `bson:"permissions" json:"permissions" yaml:"permissions"`
}

// HasPermission reports whether the role grants the given permission.
// Matching is exact; there is no wildcard or inheritance.
func (r *Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
