package model

import "time"

// Coordinate is a geographic point in [longitude, latitude] order, the
// order used on the wire and by the spatial functions of the store.
type Coordinate [2]float64

func NewCoordinate(lng, lat float64) Coordinate { return Coordinate{lng, lat} }

func (c Coordinate) Lng() float64 { return c[0] }
func (c Coordinate) Lat() float64 { return c[1] }

// Valid reports whether both components are inside their geographic range.
func (c Coordinate) Valid() bool {
	return c.Lng() >= -180 && c.Lng() <= 180 && c.Lat() >= -90 && c.Lat() <= 90
}

// Address is the postal location of a restaurant. Coord is required.
type Address struct {
	Building string     `json:"building"`
	Street   string     `json:"street"`
	Zipcode  string     `json:"zipcode"`
	Coord    Coordinate `json:"coord"`
}

// Hours holds one free-text opening-hours entry per weekday; empty means
// unknown.
type Hours struct {
	Monday    string `json:"Monday"`
	Tuesday   string `json:"Tuesday"`
	Wednesday string `json:"Wednesday"`
	Thursday  string `json:"Thursday"`
	Friday    string `json:"Friday"`
	Saturday  string `json:"Saturday"`
	Sunday    string `json:"Sunday"`
}

// Restaurant mirrors a row of the `restaurants` table. Distance is only set
// on proximity search results and is expressed in meters.
type Restaurant struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Cuisine      string    `json:"cuisine"`
	Borough      string    `json:"borough"`
	Address      Address   `json:"address"`
	Hours        Hours     `json:"hours"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
	Distance     *float64  `json:"distance,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RestaurantQuery carries the optional predicates of a restaurant search.
// Near, when set, switches the search to proximity mode.
type RestaurantQuery struct {
	Name    string
	Cuisine string
	Near    *Coordinate
}
