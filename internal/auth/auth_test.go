// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, playerID, err := IssueGuestToken("alice")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, playerID)

	gotID, gotName, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, gotID)
	assert.Equal(t, "alice", gotName)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, _, err := VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, _, err := IssueGuestToken("alice")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, _, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := IssueGuestToken("alice")
	assert.Error(t, err)
	_, _, err = VerifyToken("anything")
	assert.Error(t, err)
}
