package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubcommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: ""},
		{name: "bare subcommand", args: []string{"status"}, want: "status"},
		{name: "flags before subcommand", args: []string{"-d", "/tmp/s.db", "list"}, want: "list"},
		{name: "flags after subcommand", args: []string{"drain", "-i", "10"}, want: "drain"},
		{name: "only flags", args: []string{"-a", "https://social.example", "-w", "2"}, want: ""},
		{name: "equals-form flag", args: []string{"-config=cfg.json", "status"}, want: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subcommand(tt.args))
		})
	}
}
