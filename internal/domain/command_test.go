package domain

import (
	"errors"
	"testing"
)

func TestShellInvocation(t *testing.T) {
	tests := []struct {
		shell Shell
		want  string
	}{
		{ShellDefault, "sh"},
		{ShellBash, "bash"},
		{ShellZsh, "zsh"},
		{ShellFish, "fish"},
	}
	for _, tt := range tests {
		name, args := tt.shell.Invocation()
		if name != tt.want {
			t.Errorf("Invocation(%q) = %q, want %q", tt.shell, name, tt.want)
		}
		if len(args) != 1 || args[0] != "-c" {
			t.Errorf("Invocation(%q) args = %v, want [-c]", tt.shell, args)
		}
	}
}

func TestShellValid(t *testing.T) {
	if !ShellDefault.Valid() {
		t.Error("ShellDefault should be valid")
	}
	if Shell("csh").Valid() {
		t.Error("csh should not be valid")
	}
}

func TestCommandDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     CommandDefinition
		wantErr error
	}{
		{"ok", CommandDefinition{Command: "echo hello", Notify: true}, nil},
		{"empty command", CommandDefinition{}, ErrEmptyCommand},
		{"bad shell", CommandDefinition{Command: "ls", Shell: "csh"}, ErrInvalidShell},
		{"icon at limit", CommandDefinition{Command: "ls", Icon: "12345678"}, nil},
		{"icon too long", CommandDefinition{Command: "ls", Icon: "123456789"}, ErrIconTooLong},
		{"emoji icon counts runes", CommandDefinition{Command: "ls", Icon: "🚀🚀🚀🚀🚀🚀🚀🚀"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecutionResultIsError(t *testing.T) {
	if (ExecutionResult{Outcome: OutcomeCompleted, ExitCode: 1}).IsError() {
		t.Error("non-zero exit must not be an error outcome")
	}
	if !(ExecutionResult{Outcome: OutcomeTimedOut}).IsError() {
		t.Error("timeout is an error outcome")
	}
	if !(ExecutionResult{Outcome: OutcomeSpawnFailed}).IsError() {
		t.Error("spawn failure is an error outcome")
	}
}
