package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

func TestWait_GrantsTokens(t *testing.T) {
	cl := New(100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := cl.Wait(ctx, domain.ChannelEmail); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestWait_ZeroRateIsUnlimited(t *testing.T) {
	cl := New(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// A zero configured rate must never block dispatching.
	for _, ch := range []domain.Channel{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush} {
		for i := 0; i < 50; i++ {
			if err := cl.Wait(ctx, ch); err != nil {
				t.Fatalf("Wait(%s) error = %v", ch, err)
			}
		}
	}
}

func TestWait_UnknownChannelPasses(t *testing.T) {
	cl := New(1)

	if err := cl.Wait(context.Background(), domain.Channel("FAX")); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}
