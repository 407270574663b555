// Package autostart manages the XDG autostart desktop entry so the menu
// starts with the user's session.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

const desktopFile = ".config/autostart/gucli.desktop"

const desktopTemplate = `[Desktop Entry]
Name=Gucli
Type=Application
Categories=Utility
StartupNotify=true
Exec=%s
X-KDE-autostart-after=panel
X-LXQt-Need-Tray=true
X-GNOME-Autostart-enabled=true
`

// Path returns the location of the autostart entry.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, desktopFile), nil
}

// Enabled reports whether the autostart entry exists.
func Enabled() (bool, error) {
	path, err := Path()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Enable writes the autostart entry pointing at the current executable.
func Enable() error {
	path, err := Path()
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	entry := fmt.Sprintf(desktopTemplate, exe)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

// Disable removes the autostart entry. Removing an absent entry is not an
// error.
func Disable() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}

// Toggle flips the autostart state and reports the new state.
func Toggle() (bool, error) {
	enabled, err := Enabled()
	if err != nil {
		return false, err
	}
	if enabled {
		return false, Disable()
	}
	return true, Enable()
}
