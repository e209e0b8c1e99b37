// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphenated isbn-13", "978-4-06-519981-2", "9784065199812"},
		{"spaces", "978 4 06 519981 2", "9784065199812"},
		{"full-width digits and hyphen", "９７８－４－０６－５１９９８１－２", "9784065199812"},
		{"isbn-10 with X", "4-10-109205-X", "410109205X"},
		{"already clean", "9784065199812", "9784065199812"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("9780306406157"))
	assert.True(t, Valid("0306406152"))
	assert.True(t, Valid("020161622X"))
	assert.False(t, Valid("9780306406158"))
	assert.False(t, Valid("0306406153"))
	assert.False(t, Valid("978030640615"))
	assert.False(t, Valid("abcdefghij"))
	assert.False(t, Valid(""))
}
