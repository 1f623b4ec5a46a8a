package usps

import (
	"strings"
	"time"

	"github.com/parcelops/shiptrack/pkg/metrics"
	"github.com/parcelops/shiptrack/pkg/track"
)

// timestampLayout matches the concatenated TrackSummary EventDate and
// EventTime fields, e.g. "January 1, 2024" + " " + "9:30 AM". The API emits
// a lowercase am/pm meridiem, which time.Parse rejects, so the time portion
// is uppercased before parsing.
const timestampLayout = "January 2, 2006 3:04 PM"

// Normalize converts decoded TrackInfo entries into neutral tracking
// records. An entry without a tracking number is skipped; every other
// missing field degrades to an absent record field.
func (c *Client) Normalize(entries []TrackInfo) []track.Record {
	records := make([]track.Record, 0, len(entries))
	for _, entry := range entries {
		number, ok := stringField(entry, "@ID")
		if !ok {
			c.logger.Warn().Msg("Skipping USPS entry without tracking number")
			metrics.RecordsSkippedTotal.WithLabelValues(carrierName).Inc()
			continue
		}

		record := track.Record{
			TrackingNumber: number,
		}

		if category, ok := stringField(entry, "StatusCategory"); ok {
			// Unmapped categories leave the status unset.
			record.TrackingStatus = vocabulary[category]
		}

		if summary, ok := mapField(entry, "TrackSummary"); ok {
			record.CheckpointDate = summaryDate(summary)
			record.CheckpointLocation = summaryLocation(summary)
		}

		if status, ok := stringField(entry, "Status"); ok {
			if statusSummary, ok := stringField(entry, "StatusSummary"); ok {
				record.CheckpointStatusMessage = status + " - " + statusSummary
			}
		}

		records = append(records, record)
	}
	return records
}

// summaryDate parses the event timestamp, nil when either field is missing
// or malformed.
func summaryDate(summary map[string]interface{}) *time.Time {
	eventDate, ok := stringField(summary, "EventDate")
	if !ok {
		return nil
	}
	eventTime, ok := stringField(summary, "EventTime")
	if !ok {
		return nil
	}

	// Only the time portion is uppercased: the month name in EventDate is
	// already capitalized and the layout's month token is case-sensitive too.
	when, err := time.Parse(timestampLayout, eventDate+" "+strings.ToUpper(eventTime))
	if err != nil {
		return nil
	}
	return &when
}

// summaryLocation formats the event location. USPS events are domestic, so
// the country is fixed; a missing city or state drops the whole location.
func summaryLocation(summary map[string]interface{}) string {
	city, ok := stringField(summary, "EventCity")
	if !ok {
		return ""
	}
	state, ok := stringField(summary, "EventState")
	if !ok {
		return ""
	}
	return track.FormatLocation("US", state, city)
}

// stringField extracts a non-empty string value from a decoded XML map.
func stringField(m map[string]interface{}, key string) (string, bool) {
	value, ok := m[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// mapField extracts a nested element from a decoded XML map.
func mapField(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	value, ok := m[key].(map[string]interface{})
	return value, ok
}
