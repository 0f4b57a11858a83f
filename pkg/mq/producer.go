package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
}

func NewProducer(rabbitmqURL, queue string) (*Producer, error) {
	if queue == "" {
		queue = DefaultEmailQueue
	}
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{conn: conn, channel: ch, queue: queue}
	if err := producer.setupTopology(); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}
	return producer, nil
}

func (p *Producer) setupTopology() error {
	// 声明交换机
	err := p.channel.ExchangeDeclare(
		EmailExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare email exchange: %w", err)
	}

	// 声明队列
	_, err = p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare email queue: %w", err)
	}

	// 绑定队列到交换机
	if err = p.channel.QueueBind(p.queue, "", EmailExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind email queue: %w", err)
	}
	return nil
}

func (p *Producer) PublishEmail(ctx context.Context, job *EmailJob) error {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Timestamp == 0 {
		job.Timestamp = time.Now().Unix()
	}
	body, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		EmailExchange,
		"",
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    job.JobID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish email job: %w", err)
	}

	hlog.CtxInfof(ctx, "Published %s email job %s", job.Template, job.JobID)
	return nil
}

// SendResetPassword queues the password reset email.
func (p *Producer) SendResetPassword(ctx context.Context, to, fullname, link string) error {
	return PublishResetPassword(ctx, p, to, fullname, link)
}

// PublishResetPassword builds the reset_password job.
func PublishResetPassword(ctx context.Context, pub JobPublisher, to, fullname, link string) error {
	return pub.PublishEmail(ctx, &EmailJob{
		Template: TemplateResetPassword,
		To:       to,
		Data:     map[string]string{"fullname": fullname, "link": link},
	})
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
