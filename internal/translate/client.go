package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Translator converts text into a target language. Implementations
// must never surface an error: any internal failure falls back to
// returning the input text unchanged.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// Noop returns the input unchanged. Used when no translation API key
// is configured.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) string {
	return text
}

// Client calls the Google Translate v2 API, memoizing results so a
// repeated phrase costs one network call per process lifetime.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string]string
}

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		cache:    make(map[string]string),
	}
}

func (c *Client) Translate(ctx context.Context, text, targetLang string) string {
	key := text + "-" + targetLang
	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	translated, err := c.call(ctx, text, targetLang)
	if err != nil {
		c.logger.Warn("translation failed, using original text", "target_lang", targetLang, "error", err)
		return text
	}

	c.mu.Lock()
	c.cache[key] = translated
	c.mu.Unlock()
	return translated
}

// CacheSize reports the number of memoized translations.
func (c *Client) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Client) call(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("target", targetLang)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if len(out.Data.Translations) == 0 {
		return "", fmt.Errorf("no translations in response")
	}
	return out.Data.Translations[0].TranslatedText, nil
}
