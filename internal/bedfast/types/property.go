package types

type PropertyView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	NightlyPrice int     `json:"nightly_price"`
	Bedrooms     int     `json:"bedrooms"`
}
