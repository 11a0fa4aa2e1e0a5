package models

import "time"

// FlightRef is one flight resolved for a booking leg. DepartureAt is
// used to order legs chronologically when splitting a round trip into
// depart and return.
type FlightRef struct {
	Number      int       `json:"number"`
	DepartureAt time.Time `json:"departureAt"`
}

// FlightNumbers extracts the bare flight numbers from a list of refs.
func FlightNumbers(refs []FlightRef) []int {
	nums := make([]int, 0, len(refs))
	for _, r := range refs {
		nums = append(nums, r.Number)
	}
	return nums
}

// BookingPayload is the request body for the MakerSuite CreateBooking API.
type BookingPayload struct {
	DepartFlights      []int       `json:"DepartFlights"`
	ReturnFlights      []int       `json:"ReturnFlights"`
	Passengers         []Passenger `json:"Passengers"`
	IsDepartFirstClass bool        `json:"IsDepartFirstClass"`
	IsReturnFirstClass bool        `json:"IsReturnFirstClass"`
}

// Passenger is one traveller in the MakerSuite format.
type Passenger struct {
	FirstName       string `json:"FirstName"`
	LastName        string `json:"LastName"`
	DateOfBirth     string `json:"DateOfBirth"`
	Gender          string `json:"Gender"`
	Email           string `json:"Email"`
	Phone           string `json:"Phone"`
	DocumentNumber  string `json:"DocumentNumber"`
	DocumentType    string `json:"DocumentType"`
	DocumentExpiry  string `json:"DocumentExpiry"`
	DocumentCountry string `json:"DocumentCountry"`
	Weight          int    `json:"Weight"`
	BahamasStay     string `json:"BahamasStay"`
	AddressStreet   string `json:"AddressStreet"`
	AddressCity     string `json:"AddressCity"`
	AddressState    string `json:"AddressState"`
	AddressZIPCode  string `json:"AddressZIPCode"`
}

// BookingResponse is the MakerSuite CreateBooking response body.
type BookingResponse struct {
	BookingID     string `json:"BookingId,omitempty"`
	Confirmation  string `json:"ConfirmationNumber,omitempty"`
	StatusMessage string `json:"StatusMessage,omitempty"`
}
