package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// WMO interpretation codes as published by open-meteo.
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weathercode"`
}

type weatherResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
}

type WeatherOptions struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
}

type Weather struct {
	options WeatherOptions
	client  *http.Client
}

func NewWeather(options WeatherOptions) *Weather {
	return &Weather{
		options: options,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Description fetches the current weather for the configured coordinate and
// renders it as "{description}, Temp: {temperature}°C".
func (c *Weather) Description(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(c.options.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(c.options.Longitude, 'f', -1, 64))
	query.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.options.BaseURL+"/v1/forecast?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, res.StatusCode)
	}

	var payload weatherResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding weather: %w", err)
	}

	if payload.CurrentWeather == nil {
		return "", fmt.Errorf("weather payload has no current_weather")
	}

	description, ok := weatherCodes[payload.CurrentWeather.WeatherCode]
	if !ok {
		description = "Unknown weather code"
	}

	return fmt.Sprintf("%s, Temp: %v°C", description, payload.CurrentWeather.Temperature), nil
}
