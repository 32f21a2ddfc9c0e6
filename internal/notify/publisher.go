package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Publisher delivers committed workflow events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event models.WorkflowEvent) error
	Close() error
}

// MQTTPublisher fans each event out to the mechanic, worker and user topics it concerns.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
}

// NewMQTTPublisher connects to broker and returns a publisher for it.
func NewMQTTPublisher(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", broker).Info("Connected to MQTT broker")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return NewMQTTPublisherWithClient(client, prefix), nil
}

// NewMQTTPublisherWithClient wraps an already configured client.
func NewMQTTPublisherWithClient(client mqtt.Client, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix}
}

// Topics returns the topics an event is delivered to.
func (p *MQTTPublisher) Topics(event models.WorkflowEvent) []string {
	var topics []string
	if event.MechanicID != "" {
		topics = append(topics, fmt.Sprintf("%s/mechanics/%s/events", p.prefix, event.MechanicID))
	}
	if event.WorkerID != "" {
		topics = append(topics, fmt.Sprintf("%s/workers/%s/events", p.prefix, event.WorkerID))
	}
	if event.UserID != "" {
		topics = append(topics, fmt.Sprintf("%s/users/%s/events", p.prefix, event.UserID))
	}
	return topics
}

// Publish sends the event as JSON to each of its topics.
func (p *MQTTPublisher) Publish(ctx context.Context, event models.WorkflowEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var errs []error
	for _, topic := range p.Topics(event) {
		if err := wait(ctx, p.client.Publish(topic, qos, false, payload)); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// Close disconnects from the broker, letting in-flight messages drain.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrPublishTimeout
	}
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

// Publish logs the event at debug level.
func (NopPublisher) Publish(_ context.Context, event models.WorkflowEvent) error {
	log.WithFields(log.Fields{
		"event":      event.Type,
		"request_id": event.RequestID,
	}).Debug("Event publishing disabled")
	return nil
}

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
