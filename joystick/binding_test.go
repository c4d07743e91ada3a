package joystick

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"roverc/driver/stub"
	proto "roverc/protocol"
)

func TestBroadcastForBinding(t *testing.T) {
	d := stub.New()
	c := NewChannel(own, proto.DefaultChannel)

	if err := c.BroadcastForBinding(context.Background(), d, 3, time.Millisecond); err != nil {
		t.Fatalf("BroadcastForBinding() error = %v", err)
	}

	sent := d.GetBroadcastLog()
	if len(sent) != 3 {
		t.Fatalf("broadcasts = %d, want 3", len(sent))
	}
	want := proto.EncodeBinding(proto.DefaultChannel, own)
	for i, b := range sent {
		if !bytes.Equal(b, want) {
			t.Errorf("broadcast %d = % X, want % X", i, b, want)
		}
	}
}

func TestBroadcastForBindingStopsOnError(t *testing.T) {
	d := stub.New()
	d.FailWith(errors.New("radio busy"))
	c := NewChannel(own, proto.DefaultChannel)

	err := c.BroadcastForBinding(context.Background(), d, 20, time.Millisecond)
	if err == nil {
		t.Fatal("BroadcastForBinding() returned nil on failing driver")
	}
	if n := len(d.GetBroadcastLog()); n != 0 {
		t.Errorf("broadcasts after failure = %d, want 0", n)
	}
}

func TestBroadcastForBindingCancel(t *testing.T) {
	d := stub.New()
	c := NewChannel(own, proto.DefaultChannel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.BroadcastForBinding(ctx, d, 20, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BroadcastForBinding() error = %v, want %v", err, context.Canceled)
	}
	if n := len(d.GetBroadcastLog()); n != 1 {
		t.Errorf("broadcasts = %d, want 1", n)
	}
}
