package discord

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAdministrator(t *testing.T) {
	assert.True(t, HasAdministrator("8"), "bare administrator bit")
	assert.True(t, HasAdministrator(strconv.FormatUint(PermissionAdministrator|0x400|0x800, 10)),
		"administrator among other bits")

	// 0x400|0x800 = view channels + send messages, no admin.
	assert.False(t, HasAdministrator("3072"))
	assert.False(t, HasAdministrator("0"))
	assert.False(t, HasAdministrator(""))
	assert.False(t, HasAdministrator("not-a-number"))
	assert.False(t, HasAdministrator("-8"))
}
