// Antimony
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Antimony.
//
// Antimony is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Antimony is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Antimony.  If not, see <http://www.gnu.org/licenses/>.

package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/antimony/pkg/presence"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout    = 5 * time.Second
	disconnectQuiesce = 250
	publishQoS        = 1
)

// nowPlaying is the retained message body for the running game.
type nowPlaying struct {
	Start   time.Time `json:"start,omitzero"`
	Slug    string    `json:"slug"`
	Name    string    `json:"name"`
	Details string    `json:"details"`
	State   string    `json:"state"`
	Playing bool      `json:"playing"`
}

// MQTTPublisher publishes the now-playing status to an MQTT broker as a
// retained message, so new subscribers see the current game. It implements
// presence.Reporter.
type MQTTPublisher struct {
	client    mqtt.Client
	newClient func(opts *mqtt.ClientOptions) mqtt.Client
	broker    string
	topic     string
}

// NewMQTTPublisher creates a publisher for broker (host:port or a full
// tcp://, ssl:// or ws:// URL) and topic.
func NewMQTTPublisher(broker, topic string) *MQTTPublisher {
	return &MQTTPublisher{
		broker:    broker,
		topic:     topic,
		newClient: mqtt.NewClient,
	}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Connect connects to the broker once, without retrying. An unreachable
// broker is an error; the caller decides to run without it.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(p.broker))
	opts.SetClientID("antimony-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(connectTimeout)

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt publisher: connection lost")
	}

	p.client = p.newClient(opts)

	if err := waitToken(ctx, p.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", p.broker, err)
	}

	log.Info().Msgf("mqtt publisher: connected to %s (topic: %s)", p.broker, p.topic)
	return nil
}

func (p *MQTTPublisher) SetActivity(ctx context.Context, act presence.Activity) error {
	payload, err := json.Marshal(nowPlaying{
		Playing: true,
		Slug:    act.Slug,
		Name:    act.LargeText,
		Details: act.Details,
		State:   act.State,
		Start:   act.Start,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal now playing: %w", err)
	}
	return p.publish(ctx, payload)
}

// ClearActivity deletes the retained message.
func (p *MQTTPublisher) ClearActivity(ctx context.Context) error {
	return p.publish(ctx, []byte{})
}

func (p *MQTTPublisher) publish(ctx context.Context, payload []byte) error {
	if p.client == nil {
		return errors.New("mqtt publisher: not connected")
	}
	if err := waitToken(ctx, p.client.Publish(p.topic, publishQoS, true, payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	log.Debug().Str("topic", p.topic).Int("bytes", len(payload)).Msg("mqtt publisher: published")
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	if p.client != nil && p.client.IsConnected() {
		log.Debug().Msg("mqtt publisher: disconnecting")
		p.client.Disconnect(disconnectQuiesce)
	}
	return nil
}

// waitToken waits for token to complete or ctx to end. Without a deadline
// on ctx it waits at most connectTimeout.
func waitToken(ctx context.Context, token mqtt.Token) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}

	select {
	case <-token.Done():
		//nolint:wrapcheck // wrapped by callers
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt: %w", ctx.Err())
	}
}
