package usps

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/parcelops/shiptrack/pkg/batch"
	"github.com/parcelops/shiptrack/pkg/metrics"
)

// Request is one TrackV2 payload querying up to 10 tracking numbers. The
// XML document travels in the query string of a GET request.
type Request struct {
	TrackingNumbers []string
	URL             string
}

// TrackInfo is the decoded tracking data for one identifier: the nested
// mapping produced from the carrier's XML, with attribute keys prefixed
// by @.
type TrackInfo map[string]interface{}

// BuildRequests groups tracking numbers into chunks of 10 and produces one
// payload per chunk. Numbers are not validated; a malformed number surfaces
// as a carrier error entry.
func (c *Client) BuildRequests(trackingNumbers []string) []Request {
	chunks := batch.Chunk(trackingNumbers, chunkSize)
	requests := make([]Request, 0, len(chunks))
	for _, chunk := range chunks {
		var ids strings.Builder
		for _, number := range chunk {
			fmt.Fprintf(&ids, `<TrackID ID="%s"/>`, xmlEscape(number))
		}

		payload := fmt.Sprintf(
			`<TrackFieldRequest USERID="%s"><Revision>1</Revision><ClientIp>%s</ClientIp><SourceId>%s</SourceId>%s</TrackFieldRequest>`,
			xmlEscape(c.config.UserID), xmlEscape(c.config.ClientIP), xmlEscape(c.config.CompanyName), ids.String(),
		)

		query := url.Values{}
		query.Set("API", "TrackV2")
		query.Set("XML", payload)

		requests = append(requests, Request{
			TrackingNumbers: chunk,
			URL:             c.config.Endpoint + "?" + query.Encode(),
		})
	}
	return requests
}

// xmlEscape escapes a value for interpolation into the request document, so
// credentials or tracking numbers containing markup characters cannot break
// the payload.
func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// doRequest executes one payload and flattens the response's TrackInfo
// entries into the outcome: a chunk of N identifiers contributes 0..N
// entries. Every failure mode recovers locally, marking the chunk's
// identifiers failed without aborting the rest of the batch.
func (c *Client) doRequest(ctx context.Context, request Request) batch.Outcome[TrackInfo] {
	failed := batch.Outcome[TrackInfo]{Failed: request.TrackingNumbers}

	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(carrierName).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		c.logger.Error().Err(err).Str("url", request.URL).Msg("Failed to build request")
		metrics.RequestsTotal.WithLabelValues(carrierName, "encode_error").Inc()
		return failed
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Strs("tracking_numbers", request.TrackingNumbers).
			Str("url", request.URL).
			Msg("USPS request failed")
		metrics.RequestsTotal.WithLabelValues(carrierName, "network_error").Inc()
		return failed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Strs("tracking_numbers", request.TrackingNumbers).
			Int("status_code", resp.StatusCode).
			Msg("USPS request returned non-OK status")
		metrics.RequestsTotal.WithLabelValues(carrierName, strconv.Itoa(resp.StatusCode)).Inc()
		return failed
	}

	// Read the body fully before decoding: mxj's reader path chokes on
	// readers that return data together with io.EOF, as HTTP bodies do.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().
			Err(err).
			Strs("tracking_numbers", request.TrackingNumbers).
			Msg("Failed to read USPS response")
		metrics.RequestsTotal.WithLabelValues(carrierName, "network_error").Inc()
		return failed
	}

	decoded, err := mxj.NewMapXml(body)
	if err != nil {
		c.logger.Error().
			Err(err).
			Strs("tracking_numbers", request.TrackingNumbers).
			Msg("Failed to decode USPS response")
		metrics.RequestsTotal.WithLabelValues(carrierName, "decode_error").Inc()
		return failed
	}

	// A top-level Error element (bad user ID, malformed XML) fails the
	// whole chunk.
	if _, ok := map[string]interface{}(decoded)["Error"]; ok {
		c.logger.Warn().
			Strs("tracking_numbers", request.TrackingNumbers).
			Msg("USPS reported a request-level error")
		metrics.RequestsTotal.WithLabelValues(carrierName, "fault").Inc()
		return failed
	}

	entries, err := decoded.ValuesForPath("TrackResponse.TrackInfo")
	if err != nil || len(entries) == 0 {
		c.logger.Warn().
			Strs("tracking_numbers", request.TrackingNumbers).
			Msg("USPS response carries no track entries")
		metrics.RequestsTotal.WithLabelValues(carrierName, "decode_error").Inc()
		return failed
	}

	outcome := batch.Outcome[TrackInfo]{}
	for _, entry := range entries {
		info, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		// A per-entry Error element is the carrier's per-identifier
		// "no usable data" signal. An error entry without an ID cannot be
		// attributed to an identifier and is not counted against the batch.
		if _, ok := info["Error"]; ok {
			if id, ok := stringField(info, "@ID"); ok {
				c.logger.Debug().Str("tracking_number", id).Msg("USPS reported an error for tracking number")
				outcome.Failed = append(outcome.Failed, id)
			} else {
				c.logger.Debug().Msg("USPS reported an error entry without an ID")
			}
			continue
		}

		outcome.Results = append(outcome.Results, TrackInfo(info))
	}

	metrics.RequestsTotal.WithLabelValues(carrierName, strconv.Itoa(resp.StatusCode)).Inc()
	return outcome
}
