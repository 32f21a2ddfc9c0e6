package models

// GeoPoint is a GeoJSON point with the street address it was resolved to.
// Coordinates are stored as [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
}

// LocationInput is the location shape sent by clients.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

// NewGeoPoint builds a point from latitude and longitude.
func NewGeoPoint(lat, lon float64, address string) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lon, lat},
		Address:     address,
	}
}

// Lat returns the latitude, or 0 for an empty point.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Lon returns the longitude, or 0 for an empty point.
func (p GeoPoint) Lon() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}
