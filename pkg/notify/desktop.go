package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/umputun/anime-notifier/pkg/domain"
)

const desktopTitle = "Anime Notifier"

// Desktop shows a desktop toast for every match
type Desktop struct {
	AppIcon string
	URLFunc func(m domain.Match) string // link shown in the toast, item link if nil
	notify  func(title, message, appIcon string) error
}

// NewDesktop makes Desktop notifier backed by the os notification service
func NewDesktop(appIcon string) *Desktop {
	return &Desktop{AppIcon: appIcon, notify: beeep.Notify}
}

// Name of the notifier
func (d *Desktop) Name() string { return "desktop" }

// Notify shows the toast
func (d *Desktop) Notify(_ context.Context, m domain.Match) error {
	link := m.Item.Link
	if d.URLFunc != nil {
		link = d.URLFunc(m)
	}
	if err := d.notify(desktopTitle, DesktopMessage(m, link), d.AppIcon); err != nil {
		return fmt.Errorf("show toast: %w", err)
	}
	return nil
}

// DesktopMessage makes toast message, "<show> episode #<ep> just aired" followed by the link
func DesktopMessage(m domain.Match, link string) string {
	return fmt.Sprintf("%s episode #%s just aired\n%s", m.Entry.Title, m.Episode, link)
}
