// Package track defines the carrier-neutral tracking record shape shared by
// all carrier clients, together with the neutral status vocabulary.
package track

import "time"

// Status is a carrier-neutral shipment status.
type Status string

const (
	// StatusException indicates a delivery exception reported by the carrier.
	StatusException Status = "Exception"

	// StatusReturnToSender indicates the shipment is being returned.
	StatusReturnToSender Status = "Return to Sender"

	// StatusNotAvailable indicates the carrier has no tracking data yet.
	StatusNotAvailable Status = "Not Available"

	// StatusCancelled indicates the shipment was voided before pickup.
	StatusCancelled Status = "Cancelled"

	// StatusPreShipment indicates a label exists but the carrier has not
	// received the package.
	StatusPreShipment Status = "Pre-Shipment"

	// StatusInTransit indicates the package is moving through the network.
	StatusInTransit Status = "In Transit"

	// StatusOutForDelivery indicates the package is on a delivery vehicle.
	StatusOutForDelivery Status = "Out for Delivery"

	// StatusDelivered indicates final delivery.
	StatusDelivered Status = "Delivered"

	// StatusDeliveryAttempt indicates a delivery was attempted but not
	// completed.
	StatusDeliveryAttempt Status = "Delivered - Delivery Attempt"

	// StatusAvailableForPickup indicates the package is held for pickup.
	StatusAvailableForPickup Status = "Delivered - Available for Pickup"

	// StatusUnknown is the catch-all for carrier codes outside the
	// vocabulary. Not every carrier path uses it; USPS leaves the status
	// unset for unmapped categories.
	StatusUnknown Status = "Unknown"
)

// Record is the normalized tracking result produced for one tracking number.
// Optional fields are omitted from JSON output when absent.
type Record struct {
	TrackingNumber          string     `json:"trackingNumber"`
	TrackingStatus          Status     `json:"trackingStatus,omitempty"`
	CheckpointDate          *time.Time `json:"checkpointDate,omitempty"`
	CheckpointLocation      string     `json:"checkpointLocation,omitempty"`
	CheckpointStatusMessage string     `json:"checkpointStatusMessage,omitempty"`
}
