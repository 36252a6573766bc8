package monitor

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/models"
)

type fakeFetcher struct {
	data *models.RouteData
	err  error
}

func (f *fakeFetcher) GetRouteInfo(ctx context.Context, origin, destination string) (*models.RouteData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendServiceMessage(message string) error {
	f.sent = append(f.sent, message)
	return nil
}

func testMonitor(fetcher RouteFetcher, notifier Notifier) *ServiceMonitor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(fetcher, notifier, logger, "SMM", "CAD", time.Minute)
}

func TestCheckNotifiesOncePerMessagePerDay(t *testing.T) {
	fetcher := &fakeFetcher{
		data: &models.RouteData{Messages: []string{"Works at Abando", "Elevator closed"}},
	}
	notifier := &fakeNotifier{}
	m := testMonitor(fetcher, notifier)

	if err := m.check(context.Background()); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("sent = %d messages, expected 2", len(notifier.sent))
	}

	// Repeat polls on the same day stay quiet.
	if err := m.check(context.Background()); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Errorf("repeat check re-sent messages: %v", notifier.sent)
	}
}

func TestCheckNoMessages(t *testing.T) {
	notifier := &fakeNotifier{}
	m := testMonitor(&fakeFetcher{data: &models.RouteData{}}, notifier)

	if err := m.check(context.Background()); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent = %v, expected nothing", notifier.sent)
	}
}

func TestCheckPropagatesFetchError(t *testing.T) {
	m := testMonitor(&fakeFetcher{err: errors.New("down")}, &fakeNotifier{})
	if err := m.check(context.Background()); err == nil {
		t.Error("expected fetch error to propagate")
	}
}
