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

package config

// DefaultDiscordAppID is the Discord application used for rich presence
// when none is configured.
const DefaultDiscordAppID = "1219360949086064671"

const DefaultMQTTTopic = "antimony/now_playing"

type Presence struct {
	Discord PresenceDiscord `toml:"discord,omitempty"`
	MQTT    PresenceMQTT    `toml:"mqtt,omitempty"`
}

type PresenceDiscord struct {
	Enabled *bool  `toml:"enabled,omitempty"`
	AppID   string `toml:"app_id,omitempty"`
}

type PresenceMQTT struct {
	Broker string `toml:"broker,omitempty"`
	Topic  string `toml:"topic,omitempty"`
}

// DiscordEnabled returns true unless Discord presence was explicitly disabled.
func (c *Instance) DiscordEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Presence.Discord.Enabled == nil {
		return true
	}
	return *c.vals.Presence.Discord.Enabled
}

func (c *Instance) DiscordAppID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Presence.Discord.AppID == "" {
		return DefaultDiscordAppID
	}
	return c.vals.Presence.Discord.AppID
}

// MQTTBroker returns the host:port of the presence broker, or an empty
// string when MQTT presence is off.
func (c *Instance) MQTTBroker() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Presence.MQTT.Broker
}

func (c *Instance) MQTTTopic() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Presence.MQTT.Topic == "" {
		return DefaultMQTTTopic
	}
	return c.vals.Presence.MQTT.Topic
}

func (c *Instance) SetDiscordEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Presence.Discord.Enabled = &enabled
}

func (c *Instance) SetMQTTBroker(broker string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Presence.MQTT.Broker = broker
}
