// Package client provides the API client for interacting with the
// WorkBridge API. The cobra CLI is its primary consumer.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/api/v1/routes"
	"github.com/workbridge/workbridge/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", routes.DefaultPort)

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// Actor is the identity the client acts as. Its fields are sent as
	// the identity headers on every request.
	Actor types.Actor
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient talks to the WorkBridge v1 API
type APIClient struct {
	baseURL string
	timeout time.Duration
	actor   types.Actor
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
		actor:   opts.Actor,
	}, nil
}

// envelope mirrors the API response wrappers for decoding.
type envelope struct {
	Slug    types.Slug      `json:"slug"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	// Identity headers
	agent.Set(middleware.HeaderActorID, strconv.FormatUint(uint64(c.actor.ID), 10))
	agent.Set(middleware.HeaderActorRole, string(c.actor.Role))
	agent.Set(middleware.HeaderActorVerified, strconv.FormatBool(c.actor.Verified))
	agent.Set(middleware.HeaderActorBlocked, strconv.FormatBool(c.actor.Blocked))

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the response into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		// Prefer the API's own error message over the raw body
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
			return &fiber.Error{Code: statusCode, Message: env.Error}
		}
		return &fiber.Error{Code: statusCode, Message: string(body)}
	}

	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

// executeRequest creates an agent, sends the request, and decodes the
// enveloped data field into result
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, result interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	if result == nil {
		return c.doRequest(agent, nil)
	}

	var env envelope
	if err := c.doRequest(agent, &env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("error decoding response data: %w", err)
	}
	return nil
}

// executeList creates an agent, sends the request, and decodes a list
// response directly into result
func (c *APIClient) executeList(ctx context.Context, endpoint string, result interface{}) error {
	agent, err := c.createAgent(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.doRequest(agent, result)
}

// HealthCheck checks that the API is reachable
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	var status map[string]string
	if err := c.doRequest(agent, &status); err != nil {
		return nil, err
	}
	return status, nil
}
