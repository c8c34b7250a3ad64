package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "https://social.example/v0.7", "-d", "/tmp/s.db", "-i", "10", "-t", "20", "-r", "5", "-w", "2"}, expectPanic: false,
			expected: &Config{APIBaseURL: "https://social.example/v0.7", DatabasePath: "/tmp/s.db", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 20 * time.Second, RetryAttempts: 5, DrainConcurrency: 2}},
		{name: "incorrect check interval", args: []string{"cmd", "-a", "https://social.example/v0.7", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
