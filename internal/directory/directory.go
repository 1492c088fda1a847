// Package directory lists emergency authorities and nearby safe spots.
package directory

import (
	"net/url"
	"strings"
)

// Authority is an emergency service reachable by phone.
type Authority struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
}

// SafeSpot is a place the user can move to.
type SafeSpot struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Distance string `json:"distance"`
}

// mapsSearchURL is the map search endpoint used by MapsURL.
const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// Authorities returns the emergency numbers in display order.
func Authorities() []Authority {
	return []Authority{
		{Name: "Police", Number: "100", Description: "For immediate police assistance"},
		{Name: "Women Helpline", Number: "1091", Description: "National helpline for women in distress"},
		{Name: "Ambulance", Number: "102", Description: "Emergency medical services"},
		{Name: "Women Helpline (Domestic Abuse)", Number: "181", Description: "For domestic violence and abuse"},
	}
}

// FindAuthority returns the authority with the given number.
func FindAuthority(number string) (Authority, bool) {
	for _, a := range Authorities() {
		if a.Number == number {
			return a, true
		}
	}

	return Authority{}, false
}

// SafeSpots returns the safe spots nearest first.
func SafeSpots() []SafeSpot {
	return []SafeSpot{
		{Name: "Police Station", Address: "123 Main Street", Distance: "0.5 km"},
		{Name: "Hospital", Address: "456 Medical Ave", Distance: "0.8 km"},
		{Name: "Women's Shelter", Address: "789 Safety Boulevard", Distance: "1.2 km"},
	}
}

// MapsURL returns a map search link for spot.
func MapsURL(spot SafeSpot) string {
	query := url.QueryEscape(spot.Name + ", " + spot.Address)

	return mapsSearchURL + strings.ReplaceAll(query, "+", "%20")
}
