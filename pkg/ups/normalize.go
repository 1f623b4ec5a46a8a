package ups

import (
	"errors"
	"fmt"
	"time"

	"github.com/parcelops/shiptrack/pkg/metrics"
	"github.com/parcelops/shiptrack/pkg/track"
)

// timestampLayout matches the concatenated UPS activity Date and Time
// fields, e.g. "20240101" + "093000".
const timestampLayout = "20060102150405"

// locationPlaceholder substitutes missing address components.
const locationPlaceholder = "---"

// Normalize converts raw UPS responses into neutral tracking records.
// Responses with a malformed or incomplete shape are skipped and logged
// rather than failing the whole call.
func (c *Client) Normalize(responses []Response) []track.Record {
	records := make([]track.Record, 0, len(responses))
	for _, resp := range responses {
		record, err := normalizeResponse(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Skipping malformed UPS response")
			metrics.RecordsSkippedTotal.WithLabelValues(carrierName).Inc()
			continue
		}
		records = append(records, record)
	}
	return records
}

// normalizeResponse builds one record from one response. The tracking
// number, package activity, and activity timestamp are required; location
// and status message are optional.
func normalizeResponse(resp Response) (track.Record, error) {
	if resp.TrackResponse == nil {
		return track.Record{}, errors.New("response has no track body")
	}
	shipment := resp.TrackResponse.Shipment

	number := shipment.InquiryNumber.Value
	if number == "" {
		return track.Record{}, errors.New("shipment has no inquiry number")
	}

	activity, err := bestActivity(shipment.Package)
	if err != nil {
		return track.Record{}, fmt.Errorf("shipment %s: %w", number, err)
	}

	when, err := time.Parse(timestampLayout, activity.Date+activity.Time)
	if err != nil {
		return track.Record{}, fmt.Errorf("shipment %s: parse activity timestamp: %w", number, err)
	}

	return track.Record{
		TrackingNumber:          number,
		TrackingStatus:          generalStatus(activity.Status.Type),
		CheckpointDate:          &when,
		CheckpointLocation:      activityLocation(activity),
		CheckpointStatusMessage: activity.Status.Description,
	}, nil
}

// bestActivity resolves a shipment's packages to a single activity. For a
// multi-box shipment the latest activity with the highest status rank wins;
// the comparison is strict, so among equal ranks the first package seen
// wins. When no package carries a ranked status the first package's latest
// activity is used.
func bestActivity(packages []Package) (Activity, error) {
	if len(packages) == 0 {
		return Activity{}, errors.New("shipment has no packages")
	}
	if len(packages) == 1 {
		return latestActivity(packages[0])
	}

	var best Activity
	bestRank := 0
	found := false
	for _, pkg := range packages {
		latest, err := latestActivity(pkg)
		if err != nil {
			continue
		}
		if rank := statusRank(latest.Status.Type); !found || rank > bestRank {
			best = latest
			bestRank = rank
			found = true
		}
	}
	if !found {
		return Activity{}, errors.New("no package has activity")
	}
	return best, nil
}

// latestActivity returns a package's most recent event. UPS reports
// activity in most-recent-first order; this is not re-verified here.
func latestActivity(pkg Package) (Activity, error) {
	if len(pkg.Activity) == 0 {
		return Activity{}, errors.New("package has no activity")
	}
	return pkg.Activity[0], nil
}

// activityLocation formats the event address, substituting a placeholder
// for missing components. An absent address drops the location entirely.
func activityLocation(activity Activity) string {
	if activity.ActivityLocation == nil || activity.ActivityLocation.Address == nil {
		return ""
	}
	addr := activity.ActivityLocation.Address
	return track.FormatLocation(
		orPlaceholder(addr.CountryCode),
		orPlaceholder(addr.StateProvinceCode),
		orPlaceholder(addr.City),
	)
}

func orPlaceholder(s string) string {
	if s == "" {
		return locationPlaceholder
	}
	return s
}
