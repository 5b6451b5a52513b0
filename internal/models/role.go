package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is one of the closed set of LMS roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleCS         Role = "cs"
	RoleIT         Role = "it"
)

// AllRoles lists roles in their canonical order.
var AllRoles = []Role{RoleAdmin, RoleInstructor, RoleCS, RoleIT}

// ParseRole normalises a role name. "customer_service" is accepted as an alias of cs.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, nil
	case "instructor":
		return RoleInstructor, nil
	case "cs", "customer_service":
		return RoleCS, nil
	case "it":
		return RoleIT, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

func (r Role) bit() RoleSet {
	for i, role := range AllRoles {
		if role == r {
			return 1 << uint(i)
		}
	}
	return 0
}

// RoleSet is a bitset of roles. It serialises as a JSON array of role names.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// ParseRoleSet parses role names, failing on the first unknown one.
func ParseRoleSet(names []string) (RoleSet, error) {
	var s RoleSet
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return 0, err
		}
		s |= role.bit()
	}
	return s, nil
}

func (s RoleSet) Has(r Role) bool { return s&r.bit() != 0 }

func (s RoleSet) Intersects(other RoleSet) bool { return s&other != 0 }

func (s RoleSet) Empty() bool { return s == 0 }

func (s RoleSet) With(r Role) RoleSet { return s | r.bit() }

func (s RoleSet) Without(r Role) RoleSet { return s &^ r.bit() }

// Roles returns the members in canonical order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the member names in canonical order.
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseRoleSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
