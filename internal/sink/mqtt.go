package sink

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// ClientPublisher publishes through a connected paho client.
type ClientPublisher struct {
	Client  mqtt.Client
	QoS     byte
	Timeout time.Duration
}

func (p ClientPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, p.QoS, false, payload)
	if p.Timeout > 0 {
		if !token.WaitTimeout(p.Timeout) {
			return fmt.Errorf("publish to %s: timed out after %s", topic, p.Timeout)
		}
	} else {
		token.Wait()
	}
	return token.Error()
}

// Connect dials broker and returns a connected client.
func Connect(broker, clientID, username, password string) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// MQTT publishes one binary message per frame.
type MQTT struct {
	pub   Publisher
	topic string
	close func()
}

// NewMQTT returns a sink publishing to topic. onClose, if not nil, runs on
// Close (typically disconnecting the client).
func NewMQTT(pub Publisher, topic string, onClose func()) *MQTT {
	return &MQTT{pub: pub, topic: topic, close: onClose}
}

func (m *MQTT) Write(ctx context.Context, frame []Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalFrame(frame)
	if err != nil {
		return err
	}
	return m.pub.Publish(m.topic, data)
}

func (m *MQTT) Close() error {
	if m.close != nil {
		m.close()
	}
	return nil
}

// MarshalFrame encodes a frame as a little endian uint16 sample count, the
// float64 frame time, then one float64 value per sample in frame order.
func MarshalFrame(frame []Sample) ([]byte, error) {
	if len(frame) > math.MaxUint16 {
		return nil, fmt.Errorf("frame has %d samples, limit is %d", len(frame), math.MaxUint16)
	}
	data := make([]byte, 2, 2+8*(len(frame)+1))
	binary.LittleEndian.PutUint16(data, uint16(len(frame)))

	var t float64
	if len(frame) > 0 {
		t = frame[0].Time
	}
	data = binary.LittleEndian.AppendUint64(data, math.Float64bits(t))
	for _, s := range frame {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(s.Value))
	}
	return data, nil
}
