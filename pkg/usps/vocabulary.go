package usps

import "github.com/parcelops/shiptrack/pkg/track"

// vocabulary is the static USPS status table, keyed by the response
// StatusCategory. There is deliberately no catch-all entry: an unmapped
// category leaves the record's status unset rather than Unknown.
var vocabulary = map[string]track.Status{
	"Delivered":            track.StatusDelivered,
	"Delivered to Agent":   track.StatusDelivered,
	"Alert":                track.StatusException,
	"In Transit":           track.StatusInTransit,
	"Out for Delivery":     track.StatusOutForDelivery,
	"Pre-Shipment":         track.StatusPreShipment,
	"Delivery Attempt":     track.StatusDeliveryAttempt,
	"Available for Pickup": track.StatusAvailableForPickup,
}
