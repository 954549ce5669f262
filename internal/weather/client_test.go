package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrent(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Goba" {
			t.Errorf("name=%q, want Goba", got)
		}
		w.Write([]byte(`{"results":[{"name":"Goba","latitude":7.0167,"longitude":39.9833}]}`))
	}))
	defer geo.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latitude"); got != "7.0167" {
			t.Errorf("latitude=%q", got)
		}
		w.Write([]byte(`{"current_weather":{"temperature":14.5,"windspeed":12.3,"weathercode":2,"time":"2026-08-31T12:00"}}`))
	}))
	defer forecast.Close()

	c := NewClient(time.Second)
	c.geocodeURL = geo.URL
	c.forecastURL = forecast.URL

	report, err := c.Current(context.Background(), "Goba")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	want := Report{
		Location:     "Goba",
		TemperatureC: 14.5,
		WindSpeedKMH: 12.3,
		Conditions:   "partly cloudy",
		ObservedAt:   "2026-08-31T12:00",
	}
	if report != want {
		t.Fatalf("report=%+v, want %+v", report, want)
	}
}

func TestCurrentDefaultLocation(t *testing.T) {
	var askedFor string
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		askedFor = r.URL.Query().Get("name")
		w.Write([]byte(`{"results":[{"name":"Bale Mountains","latitude":6.8,"longitude":39.7}]}`))
	}))
	defer geo.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"current_weather":{"temperature":10,"windspeed":5,"weathercode":0,"time":"2026-08-31T06:00"}}`))
	}))
	defer forecast.Close()

	c := NewClient(time.Second)
	c.geocodeURL = geo.URL
	c.forecastURL = forecast.URL

	report, err := c.Current(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if askedFor != "Bale Mountains" {
		t.Fatalf("geocoded %q, want the default location", askedFor)
	}
	if report.Conditions != "clear sky" {
		t.Fatalf("conditions=%q", report.Conditions)
	}
}

func TestCurrentNoGeocodeResults(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer geo.Close()

	c := NewClient(time.Second)
	c.geocodeURL = geo.URL

	if _, err := c.Current(context.Background(), "nowhere"); err == nil {
		t.Fatal("expected error for an unknown location")
	}
}

func TestCurrentUnknownWeatherCode(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[{"name":"Goba","latitude":7,"longitude":40}]}`))
	}))
	defer geo.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"current_weather":{"temperature":8,"windspeed":3,"weathercode":42,"time":"2026-08-31T18:00"}}`))
	}))
	defer forecast.Close()

	c := NewClient(time.Second)
	c.geocodeURL = geo.URL
	c.forecastURL = forecast.URL

	report, err := c.Current(context.Background(), "Goba")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if report.Conditions != "unknown" {
		t.Fatalf("conditions=%q, want unknown", report.Conditions)
	}
}
