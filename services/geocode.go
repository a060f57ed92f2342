package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// GeoPoint is the display-only coordinate pair attached to a listing.
// The comparison engine never reads it.
type GeoPoint struct {
	Lat float32 `json:"lat"`
	Lng float32 `json:"lng"`
}

// Coordinates for the major listing cities, used when the remote geocoder is
// unreachable or unconfigured.
var cityCoordinates = map[string]GeoPoint{
	"colombo":      {6.9271, 79.8612},
	"gampaha":      {7.0840, 79.9920},
	"kandy":        {7.2906, 80.6337},
	"galle":        {6.0535, 80.2210},
	"matara":       {5.9549, 80.5550},
	"kurunegala":   {7.4863, 80.3623},
	"negombo":      {7.2083, 79.8358},
	"jaffna":       {9.6615, 80.0255},
	"anuradhapura": {8.3114, 80.4037},
	"ratnapura":    {6.7056, 80.3847},
	"badulla":      {6.9934, 81.0550},
	"batticaloa":   {7.7102, 81.6924},
	"trincomalee":  {8.5874, 81.2152},
}

var geocodeClient = &http.Client{Timeout: 5 * time.Second}

// GeocodeCity resolves region+city to coordinates. Best effort: remote
// geocoder first, static table second, zero point last. A failed lookup is
// logged and never fails the caller's write.
func GeocodeCity(region, city string) GeoPoint {
	if point, ok := geocodeRemote(region, city); ok {
		return point
	}
	if point, ok := cityCoordinates[strings.ToLower(strings.TrimSpace(city))]; ok {
		return point
	}
	return GeoPoint{}
}

func geocodeRemote(region, city string) (GeoPoint, bool) {
	base := os.Getenv("GEOCODER_URL")
	if base == "" {
		return GeoPoint{}, false
	}

	query := url.Values{}
	query.Set("q", strings.TrimSpace(city+", "+region+", Sri Lanka"))
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequest("GET", base+"?"+query.Encode(), nil)
	if err != nil {
		fmt.Printf("[geocode] failed to build request: %v\n", err)
		return GeoPoint{}, false
	}
	req.Header.Set("User-Agent", "carmarket-server")

	res, err := geocodeClient.Do(req)
	if err != nil {
		fmt.Printf("[geocode] lookup failed for %q/%q: %v\n", region, city, err)
		return GeoPoint{}, false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		fmt.Printf("[geocode] lookup returned status %d for %q/%q\n", res.StatusCode, region, city)
		return GeoPoint{}, false
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil || len(results) == 0 {
		return GeoPoint{}, false
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 32)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 32)
	if latErr != nil || lngErr != nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: float32(lat), Lng: float32(lng)}, true
}
