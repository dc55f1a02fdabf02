package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// WeatherContext is the weather snapshot a recommendation was generated for.
type WeatherContext struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Conditions  string    `json:"conditions"`
	Description string    `json:"description,omitempty"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Precip      float64   `json:"precip,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (w WeatherContext) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *WeatherContext) Scan(src interface{}) error {
	return scanJSON(src, w)
}
