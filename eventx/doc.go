// Package eventx provides domain events with pluggable backends.
//
// An in-process bus lives in eventxmemory and an AWS SQS publisher in
// eventxsqs. The memory bus can forward everything it sees to SQS:
//
//	bus := eventxmemory.New(eventxmemory.WithForward(sqsPublisher))
//	eventx.SubscribeTyped(bus, "mockup.markup.generated", onGenerated)
//	bus.Publish(ctx, eventx.NewEvent("mockup.markup.generated", payload))
package eventx
