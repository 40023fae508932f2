package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoles(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    RoleSet
		wantErr error
	}{
		{name: "single freelancer", raw: []string{"freelancer"}, want: RoleSet{RoleFreelancer}},
		{name: "canonical order", raw: []string{"client", "freelancer"}, want: RoleSet{RoleFreelancer, RoleClient}},
		{name: "duplicates collapse", raw: []string{"Client", " client "}, want: RoleSet{RoleClient}},
		{name: "unknown role", raw: []string{"admin"}, wantErr: ErrInvalidRole},
		{name: "empty", raw: nil, wantErr: ErrNoRoles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoles(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleSet_With(t *testing.T) {
	set := NewRoleSet(RoleClient)

	grown := set.With(RoleFreelancer)

	assert.Equal(t, RoleSet{RoleClient}, set, "With must not mutate the receiver")
	assert.Equal(t, RoleSet{RoleFreelancer, RoleClient}, grown)
	assert.True(t, grown.Has(RoleFreelancer))
	assert.Equal(t, grown, grown.With(RoleClient))
}

func TestRole_Prefix(t *testing.T) {
	assert.Equal(t, "F", RoleFreelancer.Prefix())
	assert.Equal(t, "C", RoleClient.Prefix())
	assert.False(t, Role("guest").Valid())
}
