package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGreetingName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"DisplayName", &User{DisplayName: "Jane", Email: "jane@x.com"}, "Jane"},
		{"EmailLocalPart", &User{Email: "jane@x.com"}, "jane"},
		{"BlankDisplayName", &User{DisplayName: "   ", Email: "jane@x.com"}, "jane"},
		{"EmailWithoutAt", &User{Email: "jane"}, "jane"},
		{"BothAbsent", &User{}, ""},
		{"NilUser", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.GreetingName())
		})
	}
}

func TestUserIsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).IsLocked(now))
	assert.True(t, (&User{LockoutUntil: &future}).IsLocked(now))
	assert.False(t, (&User{LockoutUntil: &past}).IsLocked(now))
}

func TestSessionState(t *testing.T) {
	user := &User{ID: "u1"}

	assert.True(t, Authenticated(user).IsAuthenticated())
	assert.False(t, Authenticated(user).IsAnonymous())

	assert.True(t, Anonymous.IsAnonymous())
	assert.False(t, Anonymous.IsAuthenticated())

	assert.False(t, Pending.IsAuthenticated())
	assert.False(t, Pending.IsAnonymous())
}
