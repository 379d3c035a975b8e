package mongodb

const (
	IdentitiesCollection    = "identities"      // Local identity records
	PermissionsCollection   = "permissions"     // Admin-guild sets per user
	GuildSettingsCollection = "guild_settings"  // Per-guild premium flags
	FormsCollection         = "forms"           // Guild application forms
	ApplicationsCollection  = "applications"    // Submitted applications
	SessionsCollection      = "sessions"        // Local login sessions
)
