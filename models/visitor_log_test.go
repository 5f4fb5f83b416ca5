package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBadgeMapping(t *testing.T) {
	cases := []struct {
		status string
		text   string
		class  string
	}{
		{LogStatusInside, "Inside", "bg-blue-100 text-blue-800"},
		{LogStatusExited, "Exited", "bg-green-100 text-green-800"},
		{LogStatusOverstayed, "Overstayed", "bg-red-100 text-red-800"},
		{"pending", "", ""},
		{"", "", ""},
		{"INSIDE", "", ""}, // statuses are lowercase in storage
	}

	for _, tc := range cases {
		assert.Equal(t, tc.text, StatusBadgeText(tc.status), tc.status)
		assert.Equal(t, tc.class, StatusBadgeClass(tc.status), tc.status)
	}
}
