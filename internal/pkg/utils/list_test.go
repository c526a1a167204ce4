package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListToString(t *testing.T) {
	assert.Equal(t, "[]", ListToString(nil))
	assert.Equal(t, `["Ana","Ben \"B\""]`, ListToString([]string{"Ana", `Ben "B"`}))
}

func TestStringToList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"[]", []string{}},
		{`["Ana","Ben"]`, []string{"Ana", "Ben"}},
		{"Ana; Ben;Cid", []string{"Ana", "Ben", "Cid"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StringToList(tt.in))
		})
	}
}
