package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePermission(t *testing.T) {
	for _, s := range []string{"PRIVATE", "PUBLIC", "PASSWORD_PROTECTED"} {
		p, ok := ParsePermission(s)
		assert.True(t, ok, s)
		assert.Equal(t, Permission(s), p)
	}

	_, ok := ParsePermission("public")
	assert.False(t, ok)
	_, ok = ParsePermission("")
	assert.False(t, ok)
}

func TestFile_Clone(t *testing.T) {
	pw := "secret"
	f := &File{ID: "1", Permission: PermissionPasswordProtected, AccessPassword: &pw}

	c := f.Clone()
	*c.AccessPassword = "changed"
	c.Permission = PermissionPublic

	assert.Equal(t, "secret", *f.AccessPassword)
	assert.Equal(t, PermissionPasswordProtected, f.Permission)
	assert.Nil(t, (*File)(nil).Clone())
}
