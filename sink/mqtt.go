package sink

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mklimuk/lidarlog"
)

const (
	DefaultMQTTClientID = "lidarlog"
	DefaultMQTTTopic    = "bicycle/lidar/distance"

	mqttConnectTimeout = 5 * time.Second
	mqttDisconnectWait = 250 // ms
)

type MQTTConfig struct {
	Server   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// MQTT publishes every reading as a JSON document to a single topic.
type MQTT struct {
	client mqtt.Client
	topic  string
}

type mqttPayload struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Distance uint16 `json:"distance_cm"`
}

func NewMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultMQTTClientID
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultMQTTTopic
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID).SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect: timed out after %s", mqttConnectTimeout)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTT{client: client, topic: cfg.Topic}, nil
}

func (m *MQTT) WriteHeader() error { return nil }

func (m *MQTT) Write(r lidarlog.Reading) error {
	b, err := encodeReading(r)
	if err != nil {
		return &lidarlog.SinkWriteError{Sink: "mqtt", Err: err}
	}
	token := m.client.Publish(m.topic, 0, false, b)
	token.Wait()
	if token.Error() != nil {
		return &lidarlog.SinkWriteError{Sink: "mqtt", Err: token.Error()}
	}
	return nil
}

func (m *MQTT) Close() error {
	if m.client != nil {
		m.client.Disconnect(mqttDisconnectWait)
	}
	return nil
}

func encodeReading(r lidarlog.Reading) ([]byte, error) {
	return json.Marshal(mqttPayload{Date: r.Date(), Time: r.TimeOfDay(), Distance: r.Distance})
}
