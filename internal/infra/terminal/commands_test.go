package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", CommandToggle},
		{" ", CommandToggle},
		{"space", CommandToggle},
		{"P", CommandToggle},
		{"z", CommandSlower},
		{"x\n", CommandFaster},
		{"q", CommandQuit},
		{"quit", CommandQuit},
		{"rewind", CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}
