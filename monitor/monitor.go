// Package monitor watches the upstream Metro Bilbao API for service
// messages and pushes them to the operator.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/models"
)

// RouteFetcher fetches route data from the upstream API.
type RouteFetcher interface {
	GetRouteInfo(ctx context.Context, origin, destination string) (*models.RouteData, error)
}

// Notifier pushes service messages to the operator.
type Notifier interface {
	SendServiceMessage(message string) error
}

// ServiceMonitor polls a reference route on an interval and notifies on
// new service messages. Each message is pushed at most once per day.
type ServiceMonitor struct {
	fetcher     RouteFetcher
	notifier    Notifier
	logger      *logrus.Logger
	origin      string
	destination string
	interval    time.Duration

	mu       sync.Mutex
	notified map[string]string // message -> day it was pushed

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a ServiceMonitor polling the given reference route.
func New(fetcher RouteFetcher, notifier Notifier, logger *logrus.Logger, origin, destination string, interval time.Duration) *ServiceMonitor {
	return &ServiceMonitor{
		fetcher:     fetcher,
		notifier:    notifier,
		logger:      logger,
		origin:      origin,
		destination: destination,
		interval:    interval,
		notified:    make(map[string]string),
		stopCh:      make(chan struct{}),
	}
}

// Start begins polling in a background goroutine.
func (m *ServiceMonitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
}

// Stop halts polling and waits for the background goroutine.
func (m *ServiceMonitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *ServiceMonitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.WithFields(logrus.Fields{
		"origin":      m.origin,
		"destination": m.destination,
		"interval":    m.interval,
	}).Info("service monitor started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			if err := m.check(ctx); err != nil {
				m.logger.WithField("error", err).Warn("service check failed")
			}
		}
	}
}

func (m *ServiceMonitor) check(ctx context.Context) error {
	data, err := m.fetcher.GetRouteInfo(ctx, m.origin, m.destination)
	if err != nil {
		return err
	}
	if len(data.Messages) == 0 {
		return nil
	}

	day := time.Now().UTC().Format("2006-01-02")
	for _, msg := range data.Messages {
		m.mu.Lock()
		already := m.notified[msg] == day
		if !already {
			m.notified[msg] = day
		}
		m.mu.Unlock()
		if already {
			continue
		}

		m.logger.WithField("message", msg).Info("new service message")
		if err := m.notifier.SendServiceMessage(msg); err != nil {
			m.logger.WithField("error", err).Warn("failed to push service message")
		}
	}

	// Drop entries from previous days so the map does not grow without
	// bound.
	m.mu.Lock()
	for msg, d := range m.notified {
		if d != day {
			delete(m.notified, msg)
		}
	}
	m.mu.Unlock()

	return nil
}
