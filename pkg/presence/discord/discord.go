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

// Package discord sets Discord Rich Presence over the local IPC socket of
// a running Discord client.
package discord

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/ZaparooProject/antimony/pkg/presence"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotRunning means no Discord IPC endpoint accepted a connection.
var ErrNotRunning = errors.New("discord is not running")

const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2

	headerSize   = 8
	maxFrameSize = 64 * 1024
	ipcVersion   = 1
	pipeCount    = 10

	maxStaleFrames = 16
)

type frameResponse struct {
	Data struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"data"`
	Cmd   string `json:"cmd"`
	Evt   string `json:"evt"`
	Nonce string `json:"nonce"`
}

type timestamps struct {
	Start int64 `json:"start,omitempty"`
}

type assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
}

type activity struct {
	Timestamps *timestamps `json:"timestamps,omitempty"`
	Assets     *assets     `json:"assets,omitempty"`
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
}

type activityArgs struct {
	Activity *activity `json:"activity"`
	PID      int       `json:"pid"`
}

type command struct {
	Args  activityArgs `json:"args"`
	Cmd   string       `json:"cmd"`
	Nonce string       `json:"nonce"`
}

// Client is a connected Discord IPC session. It implements
// presence.Reporter.
type Client struct {
	conn     net.Conn
	newNonce func() string
	appID    string
	pid      int
	mu       sync.Mutex
}

// Connect dials the first available Discord IPC endpoint and performs the
// handshake for appID.
func Connect(ctx context.Context, appID string) (*Client, error) {
	return connect(ctx, appID, endpoints())
}

func connect(ctx context.Context, appID string, paths []string) (*Client, error) {
	var conn net.Conn
	for _, path := range paths {
		c, err := dialEndpoint(ctx, path)
		if err != nil {
			continue
		}
		log.Debug().Str("path", path).Msg("connected to discord ipc")
		conn = c
		break
	}
	if conn == nil {
		return nil, ErrNotRunning
	}

	c := newClient(conn, appID)
	if err := c.handshake(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(conn net.Conn, appID string) *Client {
	return &Client{
		conn:     conn,
		appID:    appID,
		pid:      os.Getpid(),
		newNonce: func() string { return uuid.New().String() },
	}
}

func (c *Client) handshake(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer c.setDeadline(ctx)()

	hello := map[string]any{
		"v":         ipcVersion,
		"client_id": c.appID,
	}
	if err := c.send(opHandshake, hello); err != nil {
		return fmt.Errorf("discord handshake: %w", err)
	}

	resp, err := c.receive()
	if err != nil {
		return fmt.Errorf("discord handshake: %w", err)
	}
	if resp.Evt != "READY" {
		return fmt.Errorf("discord handshake: unexpected event %q: %s", resp.Evt, resp.Data.Message)
	}
	return nil
}

// SetActivity replaces the current Rich Presence activity.
func (c *Client) SetActivity(ctx context.Context, act presence.Activity) error {
	wire := &activity{
		Details: act.Details,
		State:   act.State,
	}
	if !act.Start.IsZero() {
		wire.Timestamps = &timestamps{Start: act.Start.Unix()}
	}
	if act.LargeImage != "" || act.LargeText != "" {
		wire.Assets = &assets{
			LargeImage: act.LargeImage,
			LargeText:  act.LargeText,
		}
	}
	return c.setActivity(ctx, wire)
}

// ClearActivity removes the Rich Presence activity.
func (c *Client) ClearActivity(ctx context.Context) error {
	return c.setActivity(ctx, nil)
}

func (c *Client) setActivity(ctx context.Context, act *activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return net.ErrClosed
	}
	defer c.setDeadline(ctx)()

	cmd := command{
		Cmd:   "SET_ACTIVITY",
		Nonce: c.newNonce(),
		Args: activityArgs{
			PID:      c.pid,
			Activity: act,
		},
	}
	if err := c.send(opFrame, cmd); err != nil {
		return fmt.Errorf("failed to send activity: %w", err)
	}

	resp, err := c.receiveReply(cmd.Nonce)
	if err != nil {
		return fmt.Errorf("failed to read activity response: %w", err)
	}
	if resp.Evt == "ERROR" {
		return fmt.Errorf("discord rejected activity: %s (code %d)", resp.Data.Message, resp.Data.Code)
	}
	return nil
}

// Close sends a close frame and disconnects. It is safe to call twice.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	sendErr := c.send(opClose, map[string]any{})
	closeErr := c.conn.Close()
	c.conn = nil

	if errors.Is(sendErr, io.ErrClosedPipe) || errors.Is(sendErr, net.ErrClosed) {
		sendErr = nil
	}
	return errors.Join(sendErr, closeErr)
}

// setDeadline applies ctx's deadline to the connection and returns a
// function clearing it.
func (c *Client) setDeadline(ctx context.Context) func() {
	deadline, ok := ctx.Deadline()
	if !ok {
		return func() {}
	}
	_ = c.conn.SetDeadline(deadline)
	return func() { _ = c.conn.SetDeadline(time.Time{}) }
}

func (c *Client) send(op uint32, payload any) error {
	return writeFrame(c.conn, op, payload)
}

func (c *Client) receive() (frameResponse, error) {
	var resp frameResponse
	op, data, err := readFrame(c.conn)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("invalid frame payload: %w", err)
	}
	if op == opClose {
		return resp, fmt.Errorf("discord closed the connection: %s", resp.Data.Message)
	}
	return resp, nil
}

// receiveReply skips frames that don't answer nonce, such as the late
// reply to an earlier request that timed out.
func (c *Client) receiveReply(nonce string) (frameResponse, error) {
	for range maxStaleFrames {
		resp, err := c.receive()
		if err != nil {
			return resp, err
		}
		if resp.Nonce == nonce {
			return resp, nil
		}
		log.Debug().Str("cmd", resp.Cmd).Str("nonce", resp.Nonce).
			Msg("dropping stale discord frame")
	}
	return frameResponse{}, fmt.Errorf("no reply for nonce %s after %d frames", nonce, maxStaleFrames)
}

func writeFrame(w io.Writer, op uint32, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	buf := make([]byte, headerSize+len(data))
	binary.LittleEndian.PutUint32(buf[0:4], op)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(data))) //nolint:gosec // bounded by payload size
	copy(buf[headerSize:], data)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func readFrame(r io.Reader) (uint32, []byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	op := binary.LittleEndian.Uint32(header[0:4])
	size := binary.LittleEndian.Uint32(header[4:8])
	if size > maxFrameSize {
		return 0, nil, fmt.Errorf("frame too large: %d bytes", size)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame payload: %w", err)
	}
	return op, data, nil
}
