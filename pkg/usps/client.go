// Package usps provides the USPS tracking client: XML request construction,
// batch fetching against the Package Tracking Fields API, and normalization
// into the carrier-neutral record shape.
//
// A USPS Web Tools user ID is required; sign up at
// https://www.usps.com/business/web-tools-apis/. The API tracks up to 10
// shipments per request and silently removes duplicate tracking numbers, so
// a batch containing duplicates yields fewer results than inputs.
package usps

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/parcelops/shiptrack/pkg/batch"
	"github.com/parcelops/shiptrack/pkg/logging"
	"github.com/parcelops/shiptrack/pkg/metrics"
	"github.com/parcelops/shiptrack/pkg/track"
	"github.com/rs/zerolog"
)

const carrierName = "usps"

// DefaultEndpoint is the production USPS Web Tools endpoint.
const DefaultEndpoint = "https://secure.shippingapis.com/ShippingAPI.dll"

// chunkSize is the maximum number of tracking numbers per TrackV2 request.
const chunkSize = 10

func init() {
	// Attribute keys of decoded XML carry an @ prefix; the tracking number
	// of each TrackInfo entry is read from "@ID".
	mxj.SetAttrPrefix("@")
}

// Config holds the USPS client configuration.
type Config struct {
	// UserID is the USPS Web Tools user ID (required).
	UserID string

	// CompanyName is sent to the API as the request SourceId (required).
	CompanyName string

	// ClientIP is the caller's outbound address reported in each request.
	// Auto-detected from the host when empty.
	ClientIP string

	// Endpoint overrides the API URL (for testing).
	Endpoint string

	// Batch controls payload execution. The default issues payloads
	// sequentially; raise MaxConcurrency for bounded fan-out.
	Batch batch.Config
}

// DefaultConfig returns a default configuration for the given credentials.
func DefaultConfig(userID, companyName string) Config {
	return Config{
		UserID:      userID,
		CompanyName: companyName,
		Endpoint:    DefaultEndpoint,
		Batch:       batch.DefaultConfig(),
	}
}

// Client tracks USPS shipments. One HTTP client is owned per Client; its
// connections are released at the end of every batch call.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a USPS tracking client. Both credentials are required.
func New(cfg Config) (*Client, error) {
	if cfg.UserID == "" {
		return nil, errors.New("usps user id is required")
	}
	if cfg.CompanyName == "" {
		return nil, errors.New("company name is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.ClientIP == "" {
		cfg.ClientIP = outboundIP()
	}
	if cfg.Batch.MaxConcurrency <= 0 {
		cfg.Batch = batch.DefaultConfig()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.NewLogger("usps-client"),
	}, nil
}

// Track fetches tracking data for the given numbers and returns normalized
// records. Identifiers the carrier reported no usable data for are dropped;
// result order does not necessarily match input order.
func (c *Client) Track(ctx context.Context, trackingNumbers []string) []track.Record {
	return c.Normalize(c.TrackRaw(ctx, trackingNumbers))
}

// TrackRaw fetches tracking data and returns the decoded per-identifier
// TrackInfo entries without normalization.
func (c *Client) TrackRaw(ctx context.Context, trackingNumbers []string) []TrackInfo {
	return c.fetch(ctx, c.BuildRequests(trackingNumbers), len(trackingNumbers))
}

// fetch executes all payloads within one connection scope and aggregates
// the batch failure tally over identifiers, not payloads. Connections are
// closed before returning.
func (c *Client) fetch(ctx context.Context, requests []Request, totalIdentifiers int) []TrackInfo {
	if len(requests) == 0 {
		return nil
	}
	defer c.httpClient.CloseIdleConnections()

	runner := batch.NewRunner(c.config.Batch, c.logger, c.doRequest)
	entries, failed := runner.Run(ctx, requests)

	tally := batch.Tally{Total: totalIdentifiers, Failed: len(failed)}
	metrics.BatchFailRate.WithLabelValues(carrierName).Set(tally.Rate())
	metrics.IdentifiersFailedTotal.WithLabelValues(carrierName).Add(float64(len(failed)))
	tally.Log(c.logger)

	return entries
}

// outboundIP resolves the host's own address for the request ClientIp
// field, falling back to loopback when resolution fails.
func outboundIP() string {
	host, err := os.Hostname()
	if err == nil {
		if addrs, err := net.LookupHost(host); err == nil && len(addrs) > 0 {
			return addrs[0]
		}
	}
	return "127.0.0.1"
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
