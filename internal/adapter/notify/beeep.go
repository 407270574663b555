package notify

import (
	"context"

	"github.com/gen2brain/beeep"

	"gucli/internal/domain"
)

// BeeepNotifier delivers through the gen2brain/beeep cross-platform bridge
// (D-Bus on Linux, native APIs elsewhere).
type BeeepNotifier struct{}

// NewBeeepNotifier creates the default notification backend.
func NewBeeepNotifier(appName string) *BeeepNotifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return &BeeepNotifier{}
}

func (b *BeeepNotifier) Name() string { return "beeep" }

func (b *BeeepNotifier) Send(_ context.Context, n Notification) error {
	if err := beeep.Notify(n.Title, n.Body, ""); err != nil {
		return domain.NewDomainError("BeeepNotifier.Send", domain.ErrNotifyUnavailable, err.Error())
	}
	return nil
}
