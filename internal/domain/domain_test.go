package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		valid    bool
	}{
		{"simple", "小岛旅人", true},
		{"ascii", "traveler", true},
		{"trimmed to valid", "  海风  ", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"angle bracket", "a<b", false},
		{"curly brace", "a{b}", false},
		{"square bracket", "a[b]", false},
		{"backslash", `a\b`, false},
		{"semicolon", "a;b", false},
		{"double quote", `a"b`, false},
		{"single quote", "a'b", false},
		{"backtick", "a`b", false},
		{"max length", strings.Repeat("字", 20), true},
		{"over max length", strings.Repeat("字", 21), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidNickname(tt.nickname))
		})
	}
}

func TestNightsBetween(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 1, NightsBetween(day(1), day(2)))
	assert.Equal(t, 3, NightsBetween(day(1), day(4)))
	assert.Equal(t, 0, NightsBetween(day(2), day(2)))
	assert.Equal(t, 0, NightsBetween(day(3), day(1)))

	// Partial days round up.
	checkIn := time.Date(2026, time.March, 1, 14, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NightsBetween(checkIn, checkOut))
}

func TestOrder_CanCancel(t *testing.T) {
	order := &Order{Status: OrderStatusConfirmed}
	assert.True(t, order.CanCancel())

	order.Status = OrderStatusCancelled
	assert.False(t, order.CanCancel())
}
