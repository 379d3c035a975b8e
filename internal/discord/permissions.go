package discord

import "strconv"

// PermissionAdministrator is the documented administrator bit of the
// platform's permission mask. A member holding it implicitly holds every
// other permission in the guild.
const PermissionAdministrator uint64 = 1 << 3

// HasAdministrator reports whether the permission mask, as returned by the
// guild membership listing (a decimal string), carries the administrator
// bit. Malformed masks count as no permissions.
func HasAdministrator(permissions string) bool {
	mask, err := strconv.ParseUint(permissions, 10, 64)
	if err != nil {
		return false
	}
	return mask&PermissionAdministrator != 0
}
