package sqs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	batches [][]Message
	errs    []error
	calls   int
	deleted []string
}

func (f *fakeSource) Receive(ctx context.Context, max, wait int32) ([]Message, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.batches) {
		return f.batches[i], nil
	}
	// drained; block until the test cancels
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSource) Delete(ctx context.Context, handle string) error {
	f.deleted = append(f.deleted, handle)
	return nil
}

func TestReceiver_DeliversInOrder(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		batches: [][]Message{
			{{Body: []byte("a"), ReceiptHandle: "h1"}, {Body: []byte("b"), ReceiptHandle: "h2"}},
			{{Body: []byte("c"), ReceiptHandle: "h3"}},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Message)
	go NewReceiver(src, ReceiverConfig{}).Start(ctx, out)

	var got []string
	for i := 0; i < 3; i++ {
		select {
		case m := <-out:
			got = append(got, string(m.Body))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d messages", i)
		}
	}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("messages = %v", got)
	}

	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestReceiver_RetriesAfterReceiveError(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		errs:    []error{errors.New("throttled")},
		batches: [][]Message{nil, {{Body: []byte("x"), ReceiptHandle: "h1"}}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Message)
	go NewReceiver(src, ReceiverConfig{}).Start(ctx, out)

	select {
	case m := <-out:
		if string(m.Body) != "x" {
			t.Fatalf("body = %q", m.Body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message never arrived after transient error")
	}
}

func TestReceiver_DefaultsApplied(t *testing.T) {
	t.Parallel()

	r := NewReceiver(&fakeSource{}, ReceiverConfig{})
	if r.cfg.MaxMessages != 10 || r.cfg.WaitSeconds != 20 {
		t.Fatalf("defaults = %+v", r.cfg)
	}
}
