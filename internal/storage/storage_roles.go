package storage

import (
	"fmt"
	"strings"
)

// Role is the closed set of bindable role types. Commands resolve user input
// through ParseRole; unknown names are rejected up front instead of being
// looked up dynamically.
type Role string

const (
	RoleOwner         Role = "owner"
	RoleAdministrator Role = "administrator"
	RoleManager       Role = "manager"
	RoleRadio         Role = "radio"
	RoleQotd          Role = "qotd"
)

// Permission levels per role type. Guild administrators always hold
// LevelAdministrator regardless of bindings.
const (
	LevelOwner         = 100
	LevelAdministrator = 70
	LevelManager       = 10
	LevelRadio         = 8
	LevelQotd          = 0
)

// AllRoles lists every bindable role type.
func AllRoles() []Role {
	return []Role{RoleOwner, RoleAdministrator, RoleManager, RoleRadio, RoleQotd}
}

// ParseRole maps a user-supplied name to a Role, failing on unknown input.
func ParseRole(name string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(name))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleAdministrator:
		return RoleAdministrator, nil
	case RoleManager:
		return RoleManager, nil
	case RoleRadio:
		return RoleRadio, nil
	case RoleQotd:
		return RoleQotd, nil
	default:
		return "", fmt.Errorf("unknown role type %q", name)
	}
}

// Level returns the permission level a role type grants.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return LevelOwner
	case RoleAdministrator:
		return LevelAdministrator
	case RoleManager:
		return LevelManager
	case RoleRadio:
		return LevelRadio
	default:
		return LevelQotd
	}
}

// SetRole binds a Discord role ID to a role type for a guild.
func (s *Storage) SetRole(guildID string, role Role, roleID string) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Roles[string(role)] = roleID
	})
}

// RemoveRole unbinds a role type and returns the previously bound role ID.
func (s *Storage) RemoveRole(guildID string, role Role) (string, error) {
	var prev string
	err := s.updateGuildRecord(guildID, func(r *Record) {
		prev = r.Roles[string(role)]
		delete(r.Roles, string(role))
	})
	return prev, err
}

// RoleID returns the Discord role ID bound to a role type, or "" when unset.
func (s *Storage) RoleID(guildID string, role Role) (string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Roles[string(role)], nil
}

// RoleBindings returns every bound role type for a guild.
func (s *Storage) RoleBindings(guildID string) (map[Role]string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	out := make(map[Role]string, len(record.Roles))
	for name, id := range record.Roles {
		role, err := ParseRole(name)
		if err != nil {
			continue // stale binding from an older revision
		}
		out[role] = id
	}
	return out, nil
}

// PermissionLevel computes a member's level: administrators get
// LevelAdministrator, everyone else the highest level among their bound
// roles.
func (s *Storage) PermissionLevel(guildID string, memberRoleIDs []string, isAdmin bool) (int, error) {
	if isAdmin {
		return LevelAdministrator, nil
	}

	bindings, err := s.RoleBindings(guildID)
	if err != nil {
		return 0, err
	}

	held := make(map[string]bool, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		held[id] = true
	}

	level := 0
	for role, id := range bindings {
		if held[id] && role.Level() > level {
			level = role.Level()
		}
	}
	return level, nil
}
