package ups

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/parcelops/shiptrack/pkg/batch"
	"github.com/parcelops/shiptrack/pkg/metrics"
)

// Request is one UPS Track payload. The UPS API queries a single tracking
// number per request, so a batch of N numbers produces N payloads.
type Request struct {
	Security     Security     `json:"Security"`
	TrackRequest TrackRequest `json:"TrackRequest"`
}

// Security carries the account credentials of one request.
type Security struct {
	UsernameToken      UsernameToken      `json:"UsernameToken"`
	ServiceAccessToken ServiceAccessToken `json:"UPSServiceAccessToken"`
}

// UsernameToken is the account username/password pair.
type UsernameToken struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// ServiceAccessToken carries the access license number.
type ServiceAccessToken struct {
	AccessLicenseNumber string `json:"AccessLicenseNumber"`
}

// TrackRequest names the tracking number to query and the fixed action
// directive.
type TrackRequest struct {
	Request       Directive `json:"Request"`
	InquiryNumber string    `json:"InquiryNumber"`
}

// Directive is the fixed Track/activity request action.
type Directive struct {
	RequestAction string `json:"RequestAction"`
	RequestOption string `json:"RequestOption"`
}

// BuildRequests produces one payload per tracking number. Tracking numbers
// are not validated; a malformed number surfaces as a carrier fault.
func (c *Client) BuildRequests(trackingNumbers []string) []Request {
	requests := make([]Request, 0, len(trackingNumbers))
	for _, number := range trackingNumbers {
		requests = append(requests, Request{
			Security: Security{
				UsernameToken: UsernameToken{
					Username: c.config.Username,
					Password: c.config.Password,
				},
				ServiceAccessToken: ServiceAccessToken{
					AccessLicenseNumber: c.config.License,
				},
			},
			TrackRequest: TrackRequest{
				Request: Directive{
					RequestAction: "Track",
					RequestOption: "activity",
				},
				InquiryNumber: number,
			},
		})
	}
	return requests
}

// doRequest executes one payload. Every failure mode recovers locally: the
// payload's tracking number joins the failed list and the batch continues.
func (c *Client) doRequest(ctx context.Context, request Request) batch.Outcome[Response] {
	number := request.TrackRequest.InquiryNumber
	failed := batch.Outcome[Response]{Failed: []string{number}}

	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(carrierName).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(request)
	if err != nil {
		c.logger.Error().Err(err).Str("tracking_number", number).Msg("Failed to encode request")
		metrics.RequestsTotal.WithLabelValues(carrierName, "encode_error").Inc()
		return failed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Str("tracking_number", number).Msg("Failed to build request")
		metrics.RequestsTotal.WithLabelValues(carrierName, "encode_error").Inc()
		return failed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("tracking_number", number).Msg("UPS request failed")
		metrics.RequestsTotal.WithLabelValues(carrierName, "network_error").Inc()
		return failed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Str("tracking_number", number).
			Int("status_code", resp.StatusCode).
			Msg("UPS request returned non-OK status")
		metrics.RequestsTotal.WithLabelValues(carrierName, strconv.Itoa(resp.StatusCode)).Inc()
		return failed
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error().Err(err).Str("tracking_number", number).Msg("Failed to decode UPS response")
		metrics.RequestsTotal.WithLabelValues(carrierName, "decode_error").Inc()
		return failed
	}

	// A Fault body is the carrier's per-identifier "no usable data" signal.
	if decoded.Fault != nil {
		c.logger.Debug().Str("tracking_number", number).Msg("UPS reported a fault for tracking number")
		metrics.RequestsTotal.WithLabelValues(carrierName, "fault").Inc()
		return failed
	}

	metrics.RequestsTotal.WithLabelValues(carrierName, strconv.Itoa(resp.StatusCode)).Inc()
	return batch.Outcome[Response]{Results: []Response{decoded}}
}
