package eventxmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/eventx"
)

type recorder struct{ events []eventx.Event }

func (r *recorder) Publish(ctx context.Context, e eventx.Event) error {
	r.events = append(r.events, e)
	return nil
}

func TestPublishDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	fwd := &recorder{}
	bus := New(WithForward(fwd))

	var order []string
	bus.Subscribe("a", func(ctx context.Context, e eventx.Event) error {
		order = append(order, "first")
		return errors.New("ignored")
	})
	bus.Subscribe("a", func(ctx context.Context, e eventx.Event) error {
		order = append(order, "second")
		return nil
	})
	bus.Subscribe("*", func(ctx context.Context, e eventx.Event) error {
		order = append(order, "any")
		return nil
	})

	if err := bus.Publish(ctx, eventx.NewEvent("a", "x")); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "first" || order[2] != "any" {
		t.Errorf("order = %v", order)
	}
	if len(fwd.events) != 1 {
		t.Errorf("forwarded %d events", len(fwd.events))
	}
}

func TestSubscribeTypedFiltersPayload(t *testing.T) {
	bus := New()
	var got []int
	eventx.SubscribeTyped(bus, "n", func(ctx context.Context, n int) error {
		got = append(got, n)
		return nil
	})

	bus.Publish(context.Background(), eventx.NewEvent("n", 7))
	bus.Publish(context.Background(), eventx.NewEvent("n", "not an int"))
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("got = %v", got)
	}
}

func TestClosedBusRejects(t *testing.T) {
	bus := New()
	bus.Close(context.Background())
	err := bus.Publish(context.Background(), eventx.NewEvent("a", 1))
	if !errx.IsCode(err, eventx.ErrBusClosed) {
		t.Errorf("err = %v", err)
	}
	if err := bus.Subscribe("", nil); !errx.IsCode(err, eventx.ErrInvalidEventType) {
		t.Errorf("empty type err = %v", err)
	}
}
