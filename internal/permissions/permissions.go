package permissions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Permission is one of the fixed capability tags gating a resource family.
type Permission string

const (
	PermTasks        Permission = "tasks"
	PermUsers        Permission = "users"
	PermLocations    Permission = "locations"
	PermTags         Permission = "tags"
	PermDeviceTypes  Permission = "deviceTypes"
	PermProblemTypes Permission = "problemTypes"
	PermStatuses     Permission = "statuses"
)

// AdminUserID is the distinguished super-admin identity. The admin bypasses
// permission checks and is the only identity allowed to manage users.
const AdminUserID uint64 = 1

// All lists every known permission tag.
var All = []Permission{
	PermTasks,
	PermUsers,
	PermLocations,
	PermTags,
	PermDeviceTypes,
	PermProblemTypes,
	PermStatuses,
}

// Valid reports whether p is a known permission tag.
func (p Permission) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// IsAdminID reports whether the user id is the distinguished admin identity.
func IsAdminID(userID uint64) bool {
	return userID == AdminUserID
}

// Set is a user's capability set. It is stored as a JSON array of tags and
// validated against the closed enumeration when decoded.
type Set []Permission

// ParseSet validates a list of raw tags into a Set.
func ParseSet(raw []string) (Set, error) {
	set := make(Set, 0, len(raw))
	seen := make(map[Permission]struct{}, len(raw))
	for _, r := range raw {
		p := Permission(r)
		if !p.Valid() {
			return nil, fmt.Errorf("unknown permission %q", r)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		set = append(set, p)
	}
	return set, nil
}

// ContainsAny reports whether the set grants at least one of the required
// permissions.
func (s Set) ContainsAny(required ...Permission) bool {
	for _, have := range s {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Strings returns the set as plain strings for API responses.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

// Value serializes the set as a JSON array for storage.
func (s Set) Value() (driver.Value, error) {
	if s == nil {
		s = Set{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a stored permission array.
func (s *Set) Scan(value interface{}) error {
	if value == nil {
		*s = Set{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported permissions column type %T", value)
	}
}

// UnmarshalJSON decodes and validates a stored permission array. Unknown
// tags are rejected so that a corrupted row fails loudly at the store
// boundary instead of silently granting nothing.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
