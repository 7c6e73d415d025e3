package state

import (
	"context"
	"testing"

	"github.com/vietddude/notifier/internal/core/domain"
)

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	batch := []domain.Notification{
		{Subscriber: "sub-1"},
		{Subscriber: "sub-2"},
		{Subscriber: "sub-3"},
	}
	if err := q.Enqueue(ctx, batch); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(ctx, []domain.Notification{{Subscriber: "sub-4"}}); err != nil {
		t.Fatal(err)
	}

	if n, _ := q.Len(ctx); n != 4 {
		t.Fatalf("Len() = %d, want 4", n)
	}

	got, err := q.DequeueBatch(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Subscriber != "sub-1" || got[1].Subscriber != "sub-2" {
		t.Fatalf("first batch = %+v, want sub-1, sub-2", got)
	}

	got, err = q.DequeueBatch(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Subscriber != "sub-3" || got[1].Subscriber != "sub-4" {
		t.Fatalf("second batch = %+v, want sub-3, sub-4", got)
	}

	got, err = q.DequeueBatch(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("drained queue returned %d entries", len(got))
	}
}

func TestMemoryQueueEnqueueEmpty(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	if err := q.Enqueue(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if n, _ := q.Len(ctx); n != 0 {
		t.Fatalf("Len() = %d, want 0", n)
	}
}
