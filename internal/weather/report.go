package weather

import (
	"fmt"
	"strings"
)

// forecastDays is the number of daily entries a summary always covers.
// Fetch rejects payloads carrying fewer.
const forecastDays = 9

// CurrentConditions holds the station's present readings.
type CurrentConditions struct {
	AirTemperature   float64 `json:"air_temperature"`
	FeelsLike        float64 `json:"feels_like"`
	RelativeHumidity float64 `json:"relative_humidity"`
}

// Day is a single daily forecast entry.
type Day struct {
	MonthNum    int     `json:"month_num"`
	DayNum      int     `json:"day_num"`
	Conditions  string  `json:"conditions"`
	AirTempHigh float64 `json:"air_temp_high"`
	AirTempLow  float64 `json:"air_temp_low"`
}

// Report is a station forecast: current conditions plus the coming days.
type Report struct {
	Current CurrentConditions
	Daily   []Day
}

// Summary renders the report as the prose handed to the poem prompt:
// current temperature, perceived temperature and humidity, then the next
// nine days. Fragments are concatenated without separators. Integral
// readings print without a decimal point.
func (r Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Air-Temp %vF (feels like %vF). %v%% humidity",
		r.Current.AirTemperature, r.Current.FeelsLike, r.Current.RelativeHumidity)

	for i := 0; i < forecastDays; i++ {
		d := r.Daily[i]
		fmt.Fprintf(&b, "%v/%v: %s, %v/%vF",
			d.MonthNum, d.DayNum, d.Conditions, d.AirTempHigh, d.AirTempLow)
	}

	return b.String()
}
