package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/rs/zerolog"
)

func TestConsumer_HandleMessageAppendsLine(t *testing.T) {
    dir := t.TempDir()
    c := NewConsumer("amqp://unused", dir, zerolog.Nop())

    ev := AuthEvent{
        Type:       EventUserRegistered,
        UserID:     "u-1",
        Role:       "HOST",
        OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
    }
    body, _ := json.Marshal(ev)
    if err := c.handleMessage(body); err != nil {
        t.Fatalf("handle: %v", err)
    }
    if err := c.handleMessage(body); err != nil {
        t.Fatalf("handle second: %v", err)
    }

    data, err := os.ReadFile(filepath.Join(dir, AuditLogFile))
    if err != nil {
        t.Fatalf("read log: %v", err)
    }
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    if len(lines) != 2 {
        t.Fatalf("expected 2 lines, got %d", len(lines))
    }
    want := "[2026-03-01T12:00:00Z] user.registered | user_id=u-1 | role=HOST | provider=- | ip=-"
    if lines[0] != want {
        t.Fatalf("unexpected line:\n got %q\nwant %q", lines[0], want)
    }
}

func TestConsumer_HandleMessageRejectsBadPayload(t *testing.T) {
    c := NewConsumer("amqp://unused", t.TempDir(), zerolog.Nop())
    if err := c.handleMessage([]byte("{not json")); err == nil {
        t.Fatal("expected unmarshal error")
    }
    if err := c.handleMessage([]byte(`{"type":"user.logged_in"}`)); err == nil {
        t.Fatal("expected error for missing user_id")
    }
}
