package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for _, raw := range []string{"L3", "L4", "L5"} {
		level, err := ParseLevel(raw)
		assert.NoError(t, err)
		assert.Equal(t, Level(raw), level)
	}

	for _, raw := range []string{"", "l3", "L6", "level3"} {
		_, err := ParseLevel(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"student", "admin"} {
		role, err := ParseRole(raw)
		assert.NoError(t, err)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "Admin", "superuser"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestProfileNilReceivers(t *testing.T) {
	var missing *Profile
	assert.False(t, missing.IsAdmin())
	assert.False(t, missing.IsActive())

	assert.True(t, (&Profile{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Profile{Role: RoleStudent}).IsAdmin())
	assert.True(t, (&Profile{Active: true}).IsActive())
}

func TestTaskExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	open := &Task{}
	assert.False(t, open.Expired(now))

	future := now.Add(time.Hour)
	assert.False(t, (&Task{Deadline: &future}).Expired(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&Task{Deadline: &past}).Expired(now))

	// a deadline exactly at the boundary counts as expired
	assert.True(t, (&Task{Deadline: &now}).Expired(now))
}
