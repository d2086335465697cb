package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/store"
)

// roleSeed is the YAML shape of one role definition.
type roleSeed struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type rolesFile struct {
	Roles []roleSeed `yaml:"roles"`
}

// DefaultRoles is the seed applied when no roles file is configured.
// Every user role referenced by the authorization layer must exist as a
// role document, or permission checks on it fail hard.
var DefaultRoles = []models.Role{
	{Name: models.RoleAdmin, Permissions: []string{
		models.PermissionRead, models.PermissionCreate, models.PermissionUpdate, models.PermissionDelete,
	}},
	{Name: models.RoleUser, Permissions: []string{
		models.PermissionRead, models.PermissionCreate, models.PermissionUpdate, models.PermissionDelete,
	}},
}

// LoadRoles parses a YAML roles file.
func LoadRoles(path string) ([]models.Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roles file: %w", err)
	}

	var parsed rolesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing roles file: %w", err)
	}
	if len(parsed.Roles) == 0 {
		return nil, fmt.Errorf("roles file %s defines no roles", path)
	}

	roles := make([]models.Role, 0, len(parsed.Roles))
	for _, r := range parsed.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("roles file %s contains a role without a name", path)
		}
		roles = append(roles, models.Role{Name: r.Name, Permissions: r.Permissions})
	}
	return roles, nil
}

// SeedRoles upserts the given roles, or DefaultRoles when path is empty.
func SeedRoles(ctx context.Context, roles store.RoleStore, path string) error {
	seed := DefaultRoles
	if path != "" {
		loaded, err := LoadRoles(path)
		if err != nil {
			return err
		}
		seed = loaded
	}

	for i := range seed {
		if err := roles.Upsert(ctx, &seed[i]); err != nil {
			return fmt.Errorf("seeding role %s: %w", seed[i].Name, err)
		}
	}
	return nil
}
