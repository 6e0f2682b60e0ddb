// Package realtime turns Postgres NOTIFY messages into change callbacks.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"partyreg/internal/domain"
)

// RegistrationsChannel is the NOTIFY channel fed by the registrations trigger.
const RegistrationsChannel = "registrations_changed"

const (
	minReconnectInterval = 1 * time.Second
	maxReconnectInterval = 1 * time.Minute
	pingInterval         = 90 * time.Second
)

// source is the part of *pq.Listener the subscriber drives.
type source interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listener subscribes to Postgres notification channels.
type Listener struct {
	logger *slog.Logger
	open   func() source
}

var _ domain.ChangeSubscriber = (*Listener)(nil)

// NewListener returns a Listener that opens a dedicated connection to databaseURL per subscription.
func NewListener(databaseURL string, logger *slog.Logger) *Listener {
	l := &Listener{logger: logger}
	l.open = func() source {
		return pq.NewListener(databaseURL, minReconnectInterval, maxReconnectInterval, l.logEvent)
	}
	return l
}

// Subscribe calls onChange for every notification on channel until ctx is done.
// onChange also runs after a reconnect, since notifications sent while the
// connection was down are lost.
func (l *Listener) Subscribe(ctx context.Context, channel string, onChange func()) error {
	src := l.open()
	defer src.Close()

	if err := src.Listen(channel); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	l.logger.Info("listening for changes", "channel", channel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	notifications := src.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return errors.New("notification channel closed")
			}
			if n == nil {
				l.logger.Info("listener reconnected, refreshing", "channel", channel)
			} else {
				l.logger.Debug("change notification", "channel", n.Channel, "op", n.Extra)
			}
			onChange()
		case <-ticker.C:
			go func() {
				if err := src.Ping(); err != nil {
					l.logger.Warn("listener ping failed", "channel", channel, "err", err)
				}
			}()
		}
	}
}

func (l *Listener) logEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.logger.Debug("listener connected")
	case pq.ListenerEventDisconnected:
		l.logger.Warn("listener disconnected", "err", err)
	case pq.ListenerEventReconnected:
		l.logger.Info("listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Warn("listener connection attempt failed", "err", err)
	}
}
