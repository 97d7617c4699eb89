package cmd

import "strings"

// Access is the permission level a caller must hold on a target.
// The zero value selects AccessMaster.
type Access uint8

const (
	accessDefault Access = iota
	AccessNone
	AccessFamilySharing
	AccessOperator
	AccessMaster
)

var accessNames = map[Access]string{
	AccessNone:          "none",
	AccessFamilySharing: "familysharing",
	AccessOperator:      "operator",
	AccessMaster:        "master",
}

func (a Access) String() string {
	if name, ok := accessNames[a.effective()]; ok {
		return name
	}
	return "unknown"
}

func (a Access) effective() Access {
	if a == accessDefault {
		return AccessMaster
	}
	return a
}

// ParseAccess parses an access level by name or by its numeric value.
func ParseAccess(s string) (Access, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level, name := range accessNames {
		if s == name || (len(s) == 1 && s[0] == '0'+byte(level)-1) {
			return level, true
		}
	}
	return accessDefault, false
}
