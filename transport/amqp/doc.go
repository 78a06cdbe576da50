// Package amqp carries ingestion events over RabbitMQ.
//
// Events are JSON messages on a durable direct exchange. The Consumer
// dispatches deliveries to a Handler on a worker pool with manual
// acknowledgement: handler success and unprocessable events are acked,
// transient failures are nacked with requeue. Combined with an
// at-least-once broker this gives replay-based recovery; downstream
// processing must tolerate redelivered events.
package amqp
