package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cartactl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{
		{"hash-password"},
		{"seed-admin"},
		{"seed-catalog"},
		{"dlq", "stats"},
		{"dlq", "requeue"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"database", "redis", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestSeedAdminRequiredFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"seed-admin", "--email", "a@b.c"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestHashPassword_FromArgAndStdin(t *testing.T) {
	for name, run := range map[string]func(*bytes.Buffer) error{
		"arg": func(out *bytes.Buffer) error {
			cmd := NewRootCommand()
			cmd.SetArgs([]string{"hash-password", "s3creta-larga"})
			cmd.SetOut(out)
			return cmd.Execute()
		},
		"stdin": func(out *bytes.Buffer) error {
			cmd := NewRootCommand()
			cmd.SetArgs([]string{"hash-password"})
			cmd.SetIn(strings.NewReader("s3creta-larga\n"))
			cmd.SetOut(out)
			return cmd.Execute()
		},
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run(&out))
			hash := strings.TrimSpace(out.String())
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3creta-larga")))
		})
	}
}

func TestHashPassword_EmptyStdin(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"hash-password"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestDLQRequeue_UnknownQueue(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"dlq", "requeue", "jobs:nope"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown queue")
}
