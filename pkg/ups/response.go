package ups

import (
	"bytes"
	"encoding/json"
)

// Response is the decoded body of one UPS Track call. A non-nil Fault means
// the carrier reported no usable data for the queried number.
type Response struct {
	Fault         json.RawMessage `json:"Fault,omitempty"`
	TrackResponse *TrackResponse  `json:"TrackResponse,omitempty"`
}

// TrackResponse is the success body of a Track call.
type TrackResponse struct {
	Shipment Shipment `json:"Shipment"`
}

// Shipment holds the queried number and its package records. UPS splits a
// multi-box shipment into several Package entries.
type Shipment struct {
	InquiryNumber InquiryNumber      `json:"InquiryNumber"`
	Package       OneOrMany[Package] `json:"Package"`
}

// InquiryNumber wraps the echoed tracking number.
type InquiryNumber struct {
	Value string `json:"Value"`
}

// Package is one physical box of a shipment, with its activity history in
// most-recent-first order.
type Package struct {
	Activity OneOrMany[Activity] `json:"Activity"`
}

// Activity is one tracking event for one package.
type Activity struct {
	ActivityLocation *ActivityLocation `json:"ActivityLocation,omitempty"`
	Status           ActivityStatus    `json:"Status"`
	Date             string            `json:"Date"`
	Time             string            `json:"Time"`
}

// ActivityStatus carries the UPS status code and free-text description.
type ActivityStatus struct {
	Type        string `json:"Type"`
	Description string `json:"Description"`
}

// ActivityLocation wraps the optional event address.
type ActivityLocation struct {
	Address *Address `json:"Address,omitempty"`
}

// Address holds the event location components. Any of them may be empty.
type Address struct {
	City              string `json:"City"`
	StateProvinceCode string `json:"StateProvinceCode"`
	CountryCode       string `json:"CountryCode"`
}

// OneOrMany decodes a JSON value the carrier serializes either as a single
// object or as an array of objects. UPS does this for both Package and
// Activity.
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimLeft(data, " \t\r\n")
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}

	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*o = OneOrMany[T]{one}
	return nil
}
