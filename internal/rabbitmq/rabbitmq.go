package rabbitmq

import (
	"context"
	"fmt"
	"sliderapp/internal/core/domain/logging"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RECONNECT_DELAY = 3 * time.Second

// Connection wraps amqp.Connection and redials it when the broker drops it.
type Connection struct {
	*amqp.Connection
	log    logging.Logger
	closed int32
}

// Channel opens a channel which is reopened after unexpected closes.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{
		Channel: ch,
		log:     c.log,
	}

	go func() {
		for {
			reason, ok := <-channel.Channel.NotifyClose(make(chan *amqp.Error))
			if !ok || channel.IsClosed() {
				// Sets the closed flag when the whole connection went away.
				channel.Close()
				break
			}

			c.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", *reason))
			for {
				time.Sleep(RECONNECT_DELAY)

				ch, err := c.Connection.Channel()
				if err == nil {
					c.log.Info(context.Background(), "RabbitMQ channel recreated.")
					channel.Channel = ch
					break
				}

				c.log.Error(context.Background(), "Could not recreate RabbitMQ channel.", logging.Entry("err", err))
			}
		}

	}()

	return channel, nil
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{
		Connection: conn,
		log:        log,
	}

	go func() {
		for {
			reason, ok := <-connection.Connection.NotifyClose(make(chan *amqp.Error))
			if !ok || connection.IsClosed() {
				log.Info(context.Background(), "RabbitMQ connection closed.")
				break
			}

			log.Warning(context.Background(), "RabbitMQ connection closed.", logging.Entry("reason", *reason))
			for {
				time.Sleep(RECONNECT_DELAY)

				conn, err := amqp.Dial(url)
				if err == nil {
					connection.Connection = conn
					log.Info(context.Background(), "RabbitMQ reconnect success.")
					break
				}
				log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
			}
		}
	}()

	return connection, nil
}

// IsClosed reports whether Close has been called.
func (c *Connection) IsClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// Close stops reconnecting and closes the underlying connection.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return c.Connection.Close()
}

// Channel wraps amqp.Channel.
type Channel struct {
	*amqp.Channel
	closed int32
	log    logging.Logger
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return (atomic.LoadInt32(&ch.closed) == 1)
}

func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}

	atomic.StoreInt32(&ch.closed, 1)

	return ch.Channel.Close()
}

// Consume resubscribes after channel recreation, the returned deliveries
// channel ends only after Close.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		for {
			d, err := ch.Channel.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				if ch.IsClosed() {
					close(deliveries)
					return
				}
				ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err))
				time.Sleep(RECONNECT_DELAY)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set after the deliveries channel ends.
			time.Sleep(RECONNECT_DELAY)

			if ch.IsClosed() {
				ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				close(deliveries)
				break
			}
		}
	}()

	return deliveries, nil
}

// Declare declares a durable direct exchange and a durable queue bound to it
// with routingKey.
func (ch *Channel) Declare(exchange string, queue string, routingKey string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(queue, routingKey, exchange, false, nil)
}
