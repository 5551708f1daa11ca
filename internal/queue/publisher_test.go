package queue

import (
    "context"
    "net"
    "sync"
    "testing"
    "time"

    "github.com/rs/zerolog"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
    t.Helper()
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    if err != nil {
        t.Fatalf("listen: %v", err)
    }
    var (
        mu    sync.Mutex
        conns []net.Conn
    )
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            mu.Lock()
            conns = append(conns, c)
            mu.Unlock()
        }
    }()
    t.Cleanup(func() {
        _ = ln.Close()
        mu.Lock()
        defer mu.Unlock()
        for _, c := range conns {
            _ = c.Close()
        }
    })
    return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublisher_HonorsContextDeadline(t *testing.T) {
    p := NewPublisher(silentBroker(t), zerolog.Nop())

    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()
    start := time.Now()
    err := p.Publish(ctx, AuthEvent{Type: EventUserLoggedIn, UserID: "u-1"})
    elapsed := time.Since(start)

    if err == nil {
        t.Fatal("expected error from a broker that never answers")
    }
    if elapsed > 2*time.Second {
        t.Fatalf("publish blocked for %s past a 300ms deadline", elapsed)
    }
}

func TestPublisher_DefaultTimeoutWithoutDeadline(t *testing.T) {
    p := NewPublisher(silentBroker(t), zerolog.Nop())
    p.timeout = 200 * time.Millisecond

    start := time.Now()
    if err := p.Publish(context.Background(), AuthEvent{Type: EventUserLoggedOut, UserID: "u-1"}); err == nil {
        t.Fatal("expected error from a broker that never answers")
    }
    if elapsed := time.Since(start); elapsed > 2*time.Second {
        t.Fatalf("publish blocked for %s with a 200ms timeout", elapsed)
    }
}

func TestNopPublisher(t *testing.T) {
    if err := (NopPublisher{}).Publish(context.Background(), AuthEvent{}); err != nil {
        t.Fatalf("nop publisher returned %v", err)
    }
}
