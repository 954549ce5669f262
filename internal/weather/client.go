package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Report is the payload of the weather endpoint.
type Report struct {
	Location     string  `json:"location"`
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKMH float64 `json:"wind_speed_kmh"`
	Conditions   string  `json:"conditions"`
	ObservedAt   string  `json:"observed_at"`
}

// Client fetches current conditions from an Open-Meteo-style API:
// one geocoding lookup, one current-weather call.
type Client struct {
	geocodeURL  string
	forecastURL string
	http        *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		geocodeURL:  "https://geocoding-api.open-meteo.com/v1/search",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
		http:        &http.Client{Timeout: timeout},
	}
}

// WMO weather interpretation codes, condensed.
var weatherCodes = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "drizzle",
	55: "dense drizzle",
	61: "slight rain",
	63: "rain",
	65: "heavy rain",
	71: "slight snow",
	73: "snow",
	75: "heavy snow",
	80: "rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "thunderstorm with heavy hail",
}

func (c *Client) Current(ctx context.Context, location string) (Report, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = "Bale Mountains"
	}

	lat, lon, resolvedName, err := c.geocode(ctx, location)
	if err != nil {
		return Report{}, fmt.Errorf("geocode %q: %w", location, err)
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current_weather", "true")

	var out struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+params.Encode(), &out); err != nil {
		return Report{}, fmt.Errorf("fetch current weather: %w", err)
	}

	conditions, ok := weatherCodes[out.CurrentWeather.WeatherCode]
	if !ok {
		conditions = "unknown"
	}
	return Report{
		Location:     resolvedName,
		TemperatureC: out.CurrentWeather.Temperature,
		WindSpeedKMH: out.CurrentWeather.WindSpeed,
		Conditions:   conditions,
		ObservedAt:   out.CurrentWeather.Time,
	}, nil
}

func (c *Client) geocode(ctx context.Context, location string) (lat, lon float64, name string, err error) {
	params := url.Values{}
	params.Set("name", location)
	params.Set("count", "1")

	var out struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodeURL+"?"+params.Encode(), &out); err != nil {
		return 0, 0, "", err
	}
	if len(out.Results) == 0 {
		return 0, 0, "", fmt.Errorf("no geocoding results")
	}
	r := out.Results[0]
	return r.Latitude, r.Longitude, r.Name, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("weather status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return json.Unmarshal(respBody, out)
}
