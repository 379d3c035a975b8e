package domain

import "regexp"

// Platform ids (users, guilds, channels, roles) are snowflakes: 17 to 19
// decimal digits. Anything else is rejected before a network call is made.
var snowflakePattern = regexp.MustCompile(`^[0-9]{17,19}$`)

// ValidSnowflake reports whether id is a well-formed platform identifier.
func ValidSnowflake(id string) bool {
	return snowflakePattern.MatchString(id)
}
