// Package notify delivers matched releases to push, discord and desktop destinations.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/anime-notifier/pkg/domain"
)

//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/reporter.go -pkg mocks -skip-ensure -fmt goimports . Reporter

// Notifier delivers a match to a single destination
type Notifier interface {
	Name() string
	Notify(ctx context.Context, m domain.Match) error
}

// Reporter receives delivery failures
type Reporter interface {
	Report(err error)
}

// Dispatcher sends every match to all notifiers, in order. A failed notifier doesn't stop the rest.
type Dispatcher struct {
	notifiers []Notifier
	reporter  Reporter
}

// NewDispatcher makes dispatcher for given notifiers, nil notifiers are skipped
func NewDispatcher(reporter Reporter, notifiers ...Notifier) *Dispatcher {
	res := &Dispatcher{reporter: reporter}
	for _, n := range notifiers {
		if n != nil {
			res.notifiers = append(res.notifiers, n)
		}
	}
	return res
}

// Notify delivers the match to every notifier. Failures are reported and returned joined, never retried.
func (d *Dispatcher) Notify(ctx context.Context, m domain.Match) error {
	var errs []error
	for _, n := range d.notifiers {
		if err := n.Notify(ctx, m); err != nil {
			err = fmt.Errorf("%s notification for %s #%s: %w", n.Name(), m.Entry.Title, m.Episode, err)
			if d.reporter != nil {
				d.reporter.Report(err)
			} else {
				lgr.Printf("[WARN] %v", err)
			}
			errs = append(errs, err)
			continue
		}
		lgr.Printf("[INFO] %s notification sent for %s #%s", n.Name(), m.Entry.Title, m.Episode)
	}
	return errors.Join(errs...)
}

// Names returns names of active notifiers
func (d *Dispatcher) Names() []string {
	res := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		res = append(res, n.Name())
	}
	return res
}
