package domain

// PermissionLevel describes the credential's access level on a site,
// ordered from broadest to narrowest verified access. The zero value means
// the level reported by the API was not recognised.
type PermissionLevel int

const (
	// PermissionUnknown is an unrecognised permission string.
	PermissionUnknown PermissionLevel = 0
	// PermissionFullUser has full access to all data and most settings.
	PermissionFullUser PermissionLevel = 1
	// PermissionOwner has full control including user management.
	PermissionOwner PermissionLevel = 2
	// PermissionRestrictedUser has read access to most data.
	PermissionRestrictedUser PermissionLevel = 3
	// PermissionUnverifiedUser has no access until the site is verified.
	PermissionUnverifiedUser PermissionLevel = 4
)

// permissionNames maps API permission strings to levels.
var permissionNames = map[string]PermissionLevel{
	"siteFullUser":       PermissionFullUser,
	"siteOwner":          PermissionOwner,
	"siteRestrictedUser": PermissionRestrictedUser,
	"siteUnverifiedUser": PermissionUnverifiedUser,
}

// ParsePermissionLevel maps a sites API permission string to its level.
// Unrecognised strings map to PermissionUnknown; the raw string stays
// available on the Site that carried it.
func ParsePermissionLevel(s string) PermissionLevel {
	return permissionNames[s]
}

// String returns the API permission string for the level, or "unknown".
func (p PermissionLevel) String() string {
	switch p {
	case PermissionFullUser:
		return "siteFullUser"
	case PermissionOwner:
		return "siteOwner"
	case PermissionRestrictedUser:
		return "siteRestrictedUser"
	case PermissionUnverifiedUser:
		return "siteUnverifiedUser"
	default:
		return "unknown"
	}
}

// Verified returns true if the level grants access to site data.
func (p PermissionLevel) Verified() bool {
	switch p {
	case PermissionFullUser, PermissionOwner, PermissionRestrictedUser:
		return true
	default:
		return false
	}
}

// Site is one web property entry from the sites directory.
type Site struct {
	// URL is the property identifier, e.g. "https://example.com/" or
	// "sc-domain:example.com".
	URL string
	// Permission is the parsed access level.
	Permission PermissionLevel
	// RawPermission is the permission string as reported by the API,
	// preserved for unrecognised values.
	RawPermission string
}
