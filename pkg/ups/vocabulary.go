package ups

import "github.com/parcelops/shiptrack/pkg/track"

// VocabularyEntry maps one UPS activity status code onto the neutral
// vocabulary. Rank is used when a shipment spans multiple packages: the
// activity with the highest rank wins, first seen wins ties.
type VocabularyEntry struct {
	General track.Status
	Carrier string
	Rank    int
}

// vocabulary is the static UPS status table. It does not cover every code
// the carrier can emit; unmapped codes rank 0 and normalize to Unknown.
var vocabulary = map[string]VocabularyEntry{
	"X":  {track.StatusException, "Exception", 9},
	"RS": {track.StatusReturnToSender, "Returned to Shipper", 8},
	"NA": {track.StatusNotAvailable, "Not Available", 7},
	"MV": {track.StatusCancelled, "Billing Information Voided", 6},
	"M":  {track.StatusPreShipment, "Billing Information Received", 5},
	"P":  {track.StatusInTransit, "Pickup", 4},
	"I":  {track.StatusInTransit, "In Transit", 3},
	"O":  {track.StatusOutForDelivery, "Out for Delivery", 2},
	"D":  {track.StatusDelivered, "Delivered", 1},
}

// statusRank returns the rank of a UPS status code, 0 for unmapped codes.
func statusRank(code string) int {
	if entry, ok := vocabulary[code]; ok {
		return entry.Rank
	}
	return 0
}

// generalStatus maps a UPS status code to the neutral status, Unknown for
// unmapped codes.
func generalStatus(code string) track.Status {
	if entry, ok := vocabulary[code]; ok {
		return entry.General
	}
	return track.StatusUnknown
}
