package authz

import (
	"fmt"

	"github.com/agromate/agromate-api/internal/constants"
)

// RoleSeed pins the policies one account role ships with.
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds is the access matrix. Each role owns its dashboard
// subtree; shared account routes are granted to every role.
func BuiltinRoleSeeds() []RoleSeed {
	shared := []Policy{
		{Object: "/me", Action: "*"},
		{Object: "/me/*", Action: "*"},
	}
	return []RoleSeed{
		{
			Role: constants.RoleFarmer,
			Policies: append([]Policy{
				{Object: "/dashboard/farmer", Action: "*"},
				{Object: "/dashboard/farmer/*", Action: "*"},
			}, shared...),
		},
		{
			Role: constants.RoleBuyer,
			Policies: append([]Policy{
				{Object: "/dashboard/buyer", Action: "*"},
				{Object: "/dashboard/buyer/*", Action: "*"},
			}, shared...),
		},
		{
			Role: constants.RoleDelivery,
			Policies: append([]Policy{
				{Object: "/dashboard/delivery", Action: "*"},
				{Object: "/dashboard/delivery/*", Action: "*"},
			}, shared...),
		},
	}
}

// BootstrapBuiltinRoles installs the access matrix, adding only rules that
// do not already exist so restarts are idempotent.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		subject, err := SubjectForRole(seed.Role)
		if err != nil {
			return err
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
