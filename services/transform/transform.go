package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"airmax/models"
)

var flightNumberRe = regexp.MustCompile(`\d+`)

// BookingData maps a FareHarbor booking to the MakerSuite CreateBooking
// payload. For round trips the caller supplies both flight lists; for
// single trips departFlights may be nil and is extracted from the
// booking's custom fields.
func BookingData(booking *models.Booking, departFlights, returnFlights []int) *models.BookingPayload {
	if departFlights == nil {
		departFlights = ExtractDepartFlights(booking)
	}
	if returnFlights == nil {
		returnFlights = []int{}
	}

	bookingFields := booking.BookingCustomFields()

	return &models.BookingPayload{
		DepartFlights:      departFlights,
		ReturnFlights:      returnFlights,
		Passengers:         transformPassengers(booking, bookingFields),
		IsDepartFirstClass: false,
		IsReturnFirstClass: false,
	}
}

// ExtractDepartFlights pulls flight numbers out of the booking-level
// custom fields. Field names like "Flight Number 516" carry the number
// in the name; otherwise the field value is tried. When no flight
// number fields exist the availability item pk stands in.
func ExtractDepartFlights(booking *models.Booking) []int {
	var flights []int
	for _, field := range booking.CustomFieldValues {
		if !strings.Contains(field.Name, "Flight Number") {
			continue
		}
		if m := flightNumberRe.FindString(field.Name); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				flights = append(flights, n)
				continue
			}
		}
		if v := strings.TrimSpace(field.Value); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				flights = append(flights, n)
			}
		}
	}

	if len(flights) == 0 && booking.Availability != nil && booking.Availability.Item != nil {
		flights = append(flights, booking.Availability.Item.PK)
	}
	return flights
}

func transformPassengers(booking *models.Booking, bookingFields map[string]string) []models.Passenger {
	email, phone := "", ""
	if booking.Contact != nil {
		email = booking.Contact.Email
		phone = CleanPhone(booking.Contact.Phone)
	}

	passengers := make([]models.Passenger, 0, len(booking.Customers))
	for _, customer := range booking.Customers {
		fields := customer.DisplayFields()

		gender := "F"
		if strings.Contains(fields["Passenger Sex"], "Male") {
			gender = "M"
		}

		bahamasStay := fields["Bahamas Hotel"]
		if bahamasStay == "" {
			bahamasStay = "BHS"
		}

		passengers = append(passengers, models.Passenger{
			FirstName: CleanName(fields["Passenger First Name"]),
			LastName:  CleanName(fields["Passenger Last Name"]),
			DateOfBirth: convertDate(
				fields["Date of Birth - Year"],
				fields["Date of Birth - Month"],
				fields["Date of Birth - Day"],
			),
			Gender:         gender,
			Email:          email,
			Phone:          phone,
			DocumentNumber: CleanAlphanumeric(fields["Passport Number"]),
			DocumentType:   "P",
			DocumentExpiry: convertDate(
				fields["Passport Expiration Date - Year"],
				fields["Passport Expiration Date - Month"],
				fields["Passport Expiration Date - Day"],
			),
			DocumentCountry: CountryISO3(fields["Citizenship"]),
			Weight:          185,
			BahamasStay:     bahamasStay,
			AddressStreet:   bookingFields["US Address – Street"],
			AddressCity:     bookingFields["US Address – City"],
			AddressState:    bookingFields["US Address – State"],
			AddressZIPCode:  bookingFields["US Address – Zip Code"],
		})
	}
	return passengers
}

// convertDate assembles "YYYY-MM-DD" from split year/month/day fields.
// The month may arrive as a number, a full month name, or an
// abbreviation. Unparseable input yields "".
func convertDate(year, month, day string) string {
	if year == "" || month == "" || day == "" {
		return ""
	}

	monthNum, ok := parseMonth(month)
	if !ok {
		return ""
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return ""
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return ""
	}

	t := time.Date(y, time.Month(monthNum), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values; reject them instead.
	if t.Year() != y || int(t.Month()) != monthNum || t.Day() != d {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, monthNum, d)
}

func parseMonth(month string) (int, bool) {
	month = strings.TrimSpace(month)
	if month == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(month); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(month, m.String()) || strings.EqualFold(month, m.String()[:3]) {
			return int(m), true
		}
	}
	return 0, false
}
