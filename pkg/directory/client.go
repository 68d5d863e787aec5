// Package directory resolves staff names to display profiles using the
// people directory service.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pluqqy/coursekit/internal/logger"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20
)

var (
	ErrNotFound      = errors.New("person not found in directory")
	ErrNotConfigured = errors.New("directory url is not configured")
)

// Profile is the display data of one person
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Lookup resolves a person's name to a profile
type Lookup interface {
	Lookup(ctx context.Context, name string) (Profile, error)
}

// Config customizes a Client
type Config struct {
	Endpoint      string
	HTTPClient    *http.Client
	Timeout       time.Duration
	DefaultAvatar string
	Logger        *logger.Logger
}

// Client queries the directory over HTTP. Concurrent lookups of the same
// name share one request.
type Client struct {
	endpoint      string
	client        *http.Client
	timeout       time.Duration
	defaultAvatar string
	log           *logger.Logger
	group         singleflight.Group
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:      strings.TrimSpace(cfg.Endpoint),
		client:        client,
		timeout:       timeout,
		defaultAvatar: cfg.DefaultAvatar,
		log:           logger.OrNop(cfg.Logger),
	}
}

// Lookup fetches the first directory entry matching name. The shared
// request runs under the client timeout, detached from any one caller, and
// each caller stops waiting when its own ctx is done.
func (c *Client) Lookup(ctx context.Context, name string) (Profile, error) {
	if c.endpoint == "" {
		return Profile{}, ErrNotConfigured
	}
	ch := c.group.DoChan(name, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetch(fctx, name)
	})

	select {
	case <-ctx.Done():
		return Profile{}, fmt.Errorf("lookup %q: %w", name, ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.log.Debug("directory lookup shared", "name", name)
		}
		if res.Err != nil {
			return Profile{}, res.Err
		}
		return res.Val.(Profile), nil
	}
}

func (c *Client) fetch(ctx context.Context, name string) (Profile, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return Profile{}, fmt.Errorf("parse directory url: %w", err)
	}
	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Profile{}, fmt.Errorf("lookup %q: %w", name, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Profile{}, fmt.Errorf("lookup %q: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&entries); err != nil {
		return Profile{}, fmt.Errorf("decode lookup %q: %w", name, err)
	}
	if len(entries) == 0 {
		return Profile{}, fmt.Errorf("lookup %q: %w", name, ErrNotFound)
	}

	p := entries[0]
	if strings.TrimSpace(p.ImageURL) == "" {
		p.ImageURL = c.defaultAvatar
	}
	c.log.Debug("directory lookup", "name", name, "found", p.Name)
	return p, nil
}
