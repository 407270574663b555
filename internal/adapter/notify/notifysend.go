package notify

import (
	"context"
	"os/exec"

	"gucli/internal/domain"
)

// NotifySendNotifier shells out to notify-send for setups where the D-Bus
// bridge misbehaves but the freedesktop CLI works.
type NotifySendNotifier struct {
	appName string
}

// NewNotifySendNotifier creates the notify-send backend.
func NewNotifySendNotifier(appName string) *NotifySendNotifier {
	return &NotifySendNotifier{appName: appName}
}

func (s *NotifySendNotifier) Name() string { return "notify-send" }

// Available reports whether the notify-send binary is on PATH.
func (s *NotifySendNotifier) Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (s *NotifySendNotifier) Send(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, "notify-send",
		n.Title, n.Body,
		"--app-name="+s.appName,
		"--icon=system",
	)
	if err := cmd.Run(); err != nil {
		return domain.NewDomainError("NotifySendNotifier.Send", domain.ErrNotifyUnavailable, err.Error())
	}
	return nil
}
