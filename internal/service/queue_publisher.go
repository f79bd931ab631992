// Package queue_publisher publishes domain events to RabbitMQ.  Failures
// are logged and returned so callers can ignore them without interrupting
// the request flow.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/portgermain/marina-api/internal/queue"
)

// PublishReservationConfirmed publishes a ReservationConfirmedEvent to the
// durable "reservation.confirmed" queue.  Messages are marked persistent so
// they survive broker restarts.
func PublishReservationConfirmed(ctx context.Context, event q.ReservationConfirmedEvent) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare so publisher and consumer can start in any order.
    if _, err := ch.QueueDeclare("reservation.confirmed", true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", "reservation.confirmed", false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
