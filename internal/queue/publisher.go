package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// DefaultPublishTimeout bounds one Publish call, including the broker
// dial and AMQP handshake.
const DefaultPublishTimeout = 2 * time.Second

// Publisher publishes AuthEvents to RabbitMQ.  Each call dials the broker,
// declares the queue and publishes one persistent message.  Errors are
// logged and returned so the caller can choose to ignore them.
type Publisher struct {
    url     string
    timeout time.Duration
    log     zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) *Publisher {
    return &Publisher{url: url, timeout: DefaultPublishTimeout, log: log}
}

// Publish sends ev to the auth.events queue.  It returns once ctx's
// deadline or the publish timeout passes, whichever is earlier, even when
// the broker accepts the TCP connection but never answers.
func (p *Publisher) Publish(ctx context.Context, ev AuthEvent) error {
    ctx, cancel := context.WithTimeout(ctx, p.timeout)
    defer cancel()
    deadline, _ := ctx.Deadline()
    remaining := time.Until(deadline)
    if remaining <= 0 {
        return context.DeadlineExceeded
    }

    // amqp.DefaultDial applies the timeout as a deadline on the socket for
    // the dial and the handshake; amqp clears it once the connection opens.
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Dial: amqp.DefaultDial(remaining),
    })
    if err != nil {
        p.log.Warn().Err(err).Msg("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn().Err(err).Msg("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        AuthEventsQueue, // name
        true,            // durable
        false,           // autoDelete
        false,           // exclusive
        false,           // noWait
        nil,             // args
    ); err != nil {
        p.log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", AuthEventsQueue, false, false, pub); err != nil {
        p.log.Warn().Err(err).Str("event", ev.Type).Msg("rabbitmq: publish failed")
        return err
    }
    return nil
}

// NopPublisher drops every event.  It is used when AUTH_EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) error { return nil }
