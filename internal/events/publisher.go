package events

import (
	"context"
	"encoding/json"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"

	"parkchat/internal/domain"
)

// PublisherConfig configures the MQTT connection for resolution
// events.
type PublisherConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Publisher emits one event per answered chat so operations dashboards
// can watch intent traffic without touching the database. Optional:
// the server runs without it when no broker is configured.
type Publisher struct {
	cfg    PublisherConfig
	client paho.Client
	logger *slog.Logger
}

func NewPublisher(cfg PublisherConfig, logger *slog.Logger) *Publisher {
	return &Publisher{cfg: cfg, logger: logger}
}

func (p *Publisher) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(p.cfg.BrokerURL).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		p.logger.Error("mqtt connection lost", "error", err)
	})

	p.client = paho.NewClient(opts)
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		p.client.Disconnect(100)
	}()

	return nil
}

// PublishResolution sends one resolution event at QoS 0. Losing an
// event under broker pressure is acceptable; blocking a chat response
// is not.
func (p *Publisher) PublishResolution(event domain.ResolutionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	topic := TopicResolution(p.cfg.TopicPrefix, event.Intent)
	if token := p.client.Publish(topic, 0, false, body); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
