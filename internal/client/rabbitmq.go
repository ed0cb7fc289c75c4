package client

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	VoteExchange      = "outfit-votes"
	publishTimeout    = 5 * time.Second
	reconnectInterval = 5 * time.Second
	subscriberBuffer  = 100
)

type RabbitClient interface {
	PublishMessage(ctx context.Context, message []byte) error
	SubscribeToMessages(id string) (<-chan []byte, error)
	UnsubscribeFromMessages(id string) error
	Close() error
}

type rabbitClient struct {
	url             string
	conn            *amqp.Connection
	channel         *amqp.Channel
	exchangeName    string
	subscribers     map[string]chan []byte
	subscriberMutex sync.RWMutex
	done            chan struct{}
	closeOnce       sync.Once
}

// NewRabbitMQClient connects to the broker and declares a fanout exchange. Every subscriber
// gets its own exclusive queue bound to it.
func NewRabbitMQClient(url, exchangeName string) (RabbitClient, error) {
	conn, ch, err := dialExchange(url, exchangeName)
	if err != nil {
		return nil, err
	}

	client := &rabbitClient{
		url:          url,
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		subscribers:  make(map[string]chan []byte),
		done:         make(chan struct{}),
	}

	go client.monitorConnection()

	return client, nil
}

func dialExchange(url, exchangeName string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

func (c *rabbitClient) monitorConnection() {
	c.subscriberMutex.RLock()
	connCloseChan := c.conn.NotifyClose(make(chan *amqp.Error, 1))
	c.subscriberMutex.RUnlock()

	select {
	case err := <-connCloseChan:
		logrus.Errorf("RabbitMQ connection closed: %v", err)
	case <-c.done:
		return
	}

	for {
		select {
		case <-time.After(reconnectInterval):
		case <-c.done:
			return
		}

		logrus.Info("Attempting to reconnect to RabbitMQ...")
		conn, ch, err := dialExchange(c.url, c.exchangeName)
		if err != nil {
			logrus.Errorf("Failed to reconnect to RabbitMQ: %v", err)
			continue
		}

		c.subscriberMutex.Lock()
		oldConn := c.conn
		oldChannel := c.channel
		c.conn = conn
		c.channel = ch
		c.subscriberMutex.Unlock()

		if oldChannel != nil {
			oldChannel.Close()
		}
		if oldConn != nil {
			oldConn.Close()
		}

		c.resubscribeAll()

		go c.monitorConnection()
		return
	}
}

func (c *rabbitClient) resubscribeAll() {
	c.subscriberMutex.RLock()
	defer c.subscriberMutex.RUnlock()

	for id := range c.subscribers {
		deliveries, err := c.consume(id)
		if err != nil {
			logrus.Errorf("Failed to resubscribe %s: %v", id, err)
			continue
		}
		go c.forward(id, deliveries)
	}
}

// consume binds a fresh exclusive queue for one subscriber. The caller must hold subscriberMutex.
func (c *rabbitClient) consume(id string) (<-chan amqp.Delivery, error) {
	q, err := c.channel.QueueDeclare(
		"",    // name - let RabbitMQ generate a unique name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}

	err = c.channel.QueueBind(
		q.Name,         // queue name
		"",             // routing key
		c.exchangeName, // exchange
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return nil, err
	}

	return c.channel.Consume(
		q.Name, // queue
		id,     // consumer
		true,   // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
}

// forward copies deliveries to the subscriber until its queue goes away. Sends happen under the
// read lock, and UnsubscribeFromMessages closes the channel under the write lock.
func (c *rabbitClient) forward(id string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.subscriberMutex.RLock()
		msgChan, active := c.subscribers[id]
		if active {
			select {
			case msgChan <- d.Body:
			default:
			}
		}
		c.subscriberMutex.RUnlock()

		if !active {
			return
		}
	}
}

func (c *rabbitClient) PublishMessage(ctx context.Context, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	c.subscriberMutex.RLock()
	ch := c.channel
	c.subscriberMutex.RUnlock()

	return ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		})
}

func (c *rabbitClient) SubscribeToMessages(id string) (<-chan []byte, error) {
	c.subscriberMutex.Lock()
	defer c.subscriberMutex.Unlock()

	if msgChan, exists := c.subscribers[id]; exists {
		return msgChan, nil
	}

	deliveries, err := c.consume(id)
	if err != nil {
		return nil, err
	}

	msgChan := make(chan []byte, subscriberBuffer)
	c.subscribers[id] = msgChan
	go c.forward(id, deliveries)

	return msgChan, nil
}

func (c *rabbitClient) UnsubscribeFromMessages(id string) error {
	c.subscriberMutex.Lock()
	defer c.subscriberMutex.Unlock()

	msgChan, exists := c.subscribers[id]
	if !exists {
		return nil
	}
	delete(c.subscribers, id)
	close(msgChan)

	return c.channel.Cancel(id, false)
}

func (c *rabbitClient) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	c.subscriberMutex.Lock()
	defer c.subscriberMutex.Unlock()

	for id, msgChan := range c.subscribers {
		delete(c.subscribers, id)
		close(msgChan)
	}
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
