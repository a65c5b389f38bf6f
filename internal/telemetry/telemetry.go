/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends a handful of anonymous usage events and optional
// crash reports for CropDesk. Everything here is strictly opt-in and a no-op
// unless an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "cropdesk/internal/log"
	"cropdesk/internal/version"
)

// The full set of usage events CropDesk emits. Event payloads carry no
// origin paths, file names, or other identifying data.
const (
	EventAppStart     = "app_start"
	EventImageLoaded  = "image_loaded"
	EventCropExported = "crop_exported"
	EventAppExit      = "app_exit"
)

// Config holds runtime configuration for telemetry and crash uploads.
//
// Environment variables (read by FromEnv):
// - CRD_TELEMETRY_OPT_IN: "1", "true", "yes" to enable metrics
// - CRD_TELEMETRY_URL: URL to POST JSON events to
// - CRD_CRASH_UPLOAD_URL: URL to POST crash reports to
// - CRD_TELEMETRY_TIMEOUT_MS: optional request timeout, default 1500ms
//
// If no URLs are set, events are dropped even when opt-in is true.
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv("CRD_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("CRD_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("CRD_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("CRD_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

type event struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client sends events asynchronously through a bounded queue; when the queue
// is full or a request fails, events are dropped. It never blocks the UI.
type Client struct {
	cfg   Config
	log   *slog.Logger
	cli   *http.Client
	queue chan event
	once  sync.Once
	done  chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault installs the package-level default client from env on first use.
func InitDefault() {
	defaultOnce.Do(func() {
		NewDefault(FromEnv())
	})
}

// NewDefault creates and installs the default client with cfg.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// New constructs a client and starts its sender goroutine.
func New(cfg Config) *Client {
	c := &Client{
		cfg:   cfg,
		log:   applog.WithComponent("telemetry"),
		cli:   &http.Client{Timeout: cfg.Timeout},
		queue: make(chan event, 64),
		done:  make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether usage events are opted in and an endpoint is set.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a usage event if enabled. Safe to call from anywhere.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := event{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   props,
	}
	select {
	case c.queue <- ev:
	default:
		// queue full, drop
	}
}

// Event queues a usage event on the default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.After(500 * time.Millisecond)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for len(c.queue) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-tick.C:
		}
	}
}

// Close stops the sender goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.done) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.queue:
			buf, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			c.post(c.cfg.EventsURL, "application/json", buf)
		}
	}
}

func (c *Client) post(url, contentType string, body []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		c.log.Debug("telemetry post failed", slog.String("url", url), slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
}

// UploadCrash posts an already-serialized crash report to the crash URL.
// Crash uploads follow the same opt-in as usage events.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	body := append([]byte(nil), report...)
	go c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", body)
}

// UploadCrash posts a crash report through the default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
