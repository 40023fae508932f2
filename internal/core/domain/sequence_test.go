package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, "F-001", FormatIdentifier(RoleFreelancer, 1))
	assert.Equal(t, "C-042", FormatIdentifier(RoleClient, 42))
	assert.Equal(t, "F-1000", FormatIdentifier(RoleFreelancer, 1000))
	assert.Equal(t, "C-001", FirstIdentifier(RoleClient))
}

func TestParseIdentifier(t *testing.T) {
	role, n, err := ParseIdentifier("F-007")
	require.NoError(t, err)
	assert.Equal(t, RoleFreelancer, role)
	assert.Equal(t, int64(7), n)

	role, n, err = ParseIdentifier("C-1234")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, role)
	assert.Equal(t, int64(1234), n)

	for _, bad := range []string{"", "F-", "F-01", "X-001", "F-000", "F-0001", "f-001", "F001"} {
		_, _, err := ParseIdentifier(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", bad)
	}
}

func TestCounters_GetSet(t *testing.T) {
	var c Counters
	c.Set(RoleFreelancer, 5)
	c.Set(RoleClient, 2)

	assert.Equal(t, int64(5), c.Get(RoleFreelancer))
	assert.Equal(t, int64(2), c.Get(RoleClient))
}
