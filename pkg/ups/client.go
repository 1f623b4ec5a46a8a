// Package ups provides the UPS tracking client: request construction, batch
// fetching against the UPS Track API, and normalization of responses into
// the carrier-neutral record shape.
//
// UPS API credentials are required. Credentials can be obtained by signing
// up at https://www.ups.com/upsdeveloperkit. The client does not validate
// credentials at construction; bad credentials surface as per-identifier
// carrier faults.
package ups

import (
	"context"
	"net/http"
	"time"

	"github.com/parcelops/shiptrack/pkg/batch"
	"github.com/parcelops/shiptrack/pkg/logging"
	"github.com/parcelops/shiptrack/pkg/metrics"
	"github.com/parcelops/shiptrack/pkg/track"
	"github.com/rs/zerolog"
)

const carrierName = "ups"

// DefaultEndpoint is the production UPS JSON Track API endpoint.
const DefaultEndpoint = "https://onlinetools.ups.com/json/Track"

// Config holds the UPS client configuration.
type Config struct {
	// Username is the UPS account username.
	Username string

	// Password is the UPS account password.
	Password string

	// License is the UPS access license number.
	License string

	// Endpoint overrides the Track API URL (for testing).
	Endpoint string

	// Batch controls payload execution. The default issues payloads
	// sequentially; raise MaxConcurrency for bounded fan-out.
	Batch batch.Config
}

// DefaultConfig returns a default configuration for the given credentials.
func DefaultConfig(username, password, license string) Config {
	return Config{
		Username: username,
		Password: password,
		License:  license,
		Endpoint: DefaultEndpoint,
		Batch:    batch.DefaultConfig(),
	}
}

// Client tracks UPS shipments. One HTTP client is owned per Client; its
// connections are released at the end of every batch call.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a UPS tracking client. Unlike USPS, UPS performs no
// construction-time credential validation.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Batch.MaxConcurrency <= 0 {
		cfg.Batch = batch.DefaultConfig()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.NewLogger("ups-client"),
	}
}

// Track fetches tracking data for the given numbers and returns normalized
// records. Identifiers the carrier reported no usable data for are dropped;
// result order does not necessarily match input order.
func (c *Client) Track(ctx context.Context, trackingNumbers []string) []track.Record {
	return c.Normalize(c.TrackRaw(ctx, trackingNumbers))
}

// TrackRaw fetches tracking data and returns the decoded carrier responses
// without normalization.
func (c *Client) TrackRaw(ctx context.Context, trackingNumbers []string) []Response {
	return c.fetch(ctx, c.BuildRequests(trackingNumbers))
}

// fetch executes all payloads within one connection scope and aggregates
// the batch failure tally. Connections are closed before returning.
func (c *Client) fetch(ctx context.Context, requests []Request) []Response {
	if len(requests) == 0 {
		return nil
	}
	defer c.httpClient.CloseIdleConnections()

	runner := batch.NewRunner(c.config.Batch, c.logger, c.doRequest)
	responses, failed := runner.Run(ctx, requests)

	tally := batch.Tally{Total: len(requests), Failed: len(failed)}
	metrics.BatchFailRate.WithLabelValues(carrierName).Set(tally.Rate())
	metrics.IdentifiersFailedTotal.WithLabelValues(carrierName).Add(float64(len(failed)))
	tally.Log(c.logger)

	return responses
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
