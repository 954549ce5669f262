package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	HTTPAddr          string
	IntentsPath       string
	VocabularyPath    string
	QuickActionsPath  string
	ClassifierBaseURL string
	ClassifierTimeout time.Duration
	Threshold         float64
	TranslateAPIKey   string
	TranslateTimeout  time.Duration
	WeatherTimeout    time.Duration
	CacheMaxEntries   int
	DBDSN             string
	MQTTBrokerURL     string
	MQTTClientID      string
	MQTTUsername      string
	MQTTPassword      string
	MQTTTopicPrefix   string
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		HTTPAddr:          getenvDefault("PARKCHAT_HTTP_ADDR", ":9020"),
		IntentsPath:       getenvDefault("INTENTS_PATH", "data/bale_mountains.json"),
		VocabularyPath:    os.Getenv("VOCABULARY_PATH"),
		QuickActionsPath:  os.Getenv("QUICK_ACTIONS_PATH"),
		ClassifierBaseURL: os.Getenv("CLASSIFIER_BASE_URL"),
		ClassifierTimeout: time.Duration(getenvIntDefault("CLASSIFIER_TIMEOUT_MS", 2000)) * time.Millisecond,
		Threshold:         getenvFloatDefault("CONFIDENCE_THRESHOLD", 0.7),
		TranslateAPIKey:   os.Getenv("TRANSLATE_API_KEY"),
		TranslateTimeout:  time.Duration(getenvIntDefault("TRANSLATE_TIMEOUT_MS", 3000)) * time.Millisecond,
		WeatherTimeout:    time.Duration(getenvIntDefault("WEATHER_TIMEOUT_MS", 5000)) * time.Millisecond,
		CacheMaxEntries:   getenvIntDefault("CACHE_MAX_ENTRIES", 1024),
		DBDSN:             os.Getenv("DB_DSN"),
		MQTTBrokerURL:     os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:      getenvDefault("MQTT_CLIENT_ID", "parkchat-server"),
		MQTTUsername:      os.Getenv("MQTT_USERNAME"),
		MQTTPassword:      os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix:   getenvDefault("MQTT_TOPIC_PREFIX", "parkchat"),
	}

	if cfg.IntentsPath == "" {
		return ServerConfig{}, fmt.Errorf("INTENTS_PATH is required")
	}
	if cfg.ClassifierBaseURL != "" && cfg.VocabularyPath == "" {
		return ServerConfig{}, fmt.Errorf("VOCABULARY_PATH is required when CLASSIFIER_BASE_URL is set")
	}
	if cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		return ServerConfig{}, fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0,1), got %v", cfg.Threshold)
	}

	return cfg, nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}

func getenvFloatDefault(key string, val float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return val
	}
	return f
}
