package domain

import "unicode/utf8"

// MaxIconRunes is the maximum icon length in Unicode scalar values.
const MaxIconRunes = 8

// Shell selects the interpreter a command string is handed to.
// It is a closed enum; ShellDefault maps to the system Bourne shell.
type Shell string

const (
	ShellDefault Shell = ""
	ShellBash    Shell = "bash"
	ShellZsh     Shell = "zsh"
	ShellFish    Shell = "fish"
)

// Invocation returns the interpreter binary and the argument prefix used to
// hand it a command string (e.g. "sh", ["-c"]).
func (s Shell) Invocation() (name string, args []string) {
	switch s {
	case ShellBash:
		return "bash", []string{"-c"}
	case ShellZsh:
		return "zsh", []string{"-c"}
	case ShellFish:
		return "fish", []string{"-c"}
	default:
		return "sh", []string{"-c"}
	}
}

// Valid reports whether s is one of the known shell variants.
func (s Shell) Valid() bool {
	switch s {
	case ShellDefault, ShellBash, ShellZsh, ShellFish:
		return true
	}
	return false
}

// CommandDefinition binds a shell command string to menu metadata.
// The Command string is the identity key: no two definitions may share it.
type CommandDefinition struct {
	Shell   Shell  `yaml:"shell,omitempty"`
	Command string `yaml:"command"`
	Icon    string `yaml:"icon,omitempty"`
	Notify  bool   `yaml:"notify"`
}

// Validate checks a single definition (registry-level uniqueness is checked
// separately, at load time).
func (d CommandDefinition) Validate() error {
	if d.Command == "" {
		return NewDomainError("CommandDefinition.Validate", ErrEmptyCommand, "")
	}
	if !d.Shell.Valid() {
		return NewDomainError("CommandDefinition.Validate", ErrInvalidShell, string(d.Shell))
	}
	if utf8.RuneCountInString(d.Icon) > MaxIconRunes {
		return NewDomainError("CommandDefinition.Validate", ErrIconTooLong, d.Icon)
	}
	return nil
}
