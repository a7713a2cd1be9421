package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"t", "users.registered"}, want: "Registro completado, pendiente de aprobación\n"},
		{args: []string{"t", "users.registered", "--lang", "en"}, want: "Registration complete, pending approval\n"},
		{args: []string{"t", "no.such.key"}, want: "no.such.key\n"},
	}
	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			require.Equal(t, tt.want, out.String())
		})
	}
}

func TestTranslateCommand_Args(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"t"})
	require.Error(t, cmd.Execute())
}
