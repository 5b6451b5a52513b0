package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleAcceptsCustomerServiceAlias(t *testing.T) {
	role, err := ParseRole(" Customer_Service ")
	require.NoError(t, err)
	assert.Equal(t, RoleCS, role)

	_, err = ParseRole("superadmin")
	assert.Error(t, err)
}

func TestRoleSetOperations(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleIT)

	assert.True(t, set.Has(RoleAdmin))
	assert.False(t, set.Has(RoleCS))
	assert.True(t, set.Intersects(NewRoleSet(RoleIT)))
	assert.False(t, set.Intersects(NewRoleSet(RoleInstructor, RoleCS)))
	assert.Equal(t, NewRoleSet(RoleAdmin), set.Without(RoleIT))
	assert.Equal(t, []string{"admin", "cs", "it"}, set.With(RoleCS).Strings())
	assert.True(t, RoleSet(0).Empty())
}

func TestRoleSetJSON(t *testing.T) {
	raw, err := json.Marshal(NewRoleSet(RoleIT, RoleInstructor))
	require.NoError(t, err)
	assert.JSONEq(t, `["instructor","it"]`, string(raw))

	var decoded RoleSet
	require.NoError(t, json.Unmarshal([]byte(`["customer_service","admin"]`), &decoded))
	assert.Equal(t, NewRoleSet(RoleCS, RoleAdmin), decoded)

	assert.Error(t, json.Unmarshal([]byte(`["janitor"]`), &decoded))
}
