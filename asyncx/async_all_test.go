package asyncx

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAsyncAllKeepsOrder(t *testing.T) {
	got, err := AsyncAll(context.Background(), []int{30, 10, 20}, func(ctx context.Context, ms int) (int, error) {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return ms * 2, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{60, 20, 40}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAsyncAllReturnsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := AsyncAll(context.Background(), []string{"txt", "html"}, func(ctx context.Context, ext string) (string, error) {
		if ext == "html" {
			return "", boom
		}
		return ext, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestAsyncAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)

	_, err := AsyncAll(ctx, []int{1}, func(ctx context.Context, _ int) (int, error) {
		<-block
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestAsyncAllEmpty(t *testing.T) {
	got, err := AsyncAll(context.Background(), nil, func(ctx context.Context, _ int) (int, error) {
		return 0, nil
	})
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}
