// Package garmin fetches Garmin Connect's public exercise web-data documents.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	collerrors "github.com/hysterresis/garmin-exercises/pkg/errors"
)

const (
	// DefaultBaseURL is the Garmin Connect origin serving catalog documents.
	DefaultBaseURL = "https://connect.garmin.com/"
	// DefaultVideoBaseURL serves exercise video thumbnails.
	DefaultVideoBaseURL = "https://connectvideo.garmin.com"
	// DefaultLocale selects the detail document language.
	DefaultLocale = "en-US"
)

// Client is a Garmin Connect web-data client.
type Client struct {
	baseURL      string
	videoBaseURL string
	locale       string
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient allows HTTP client injection for testing.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBaseURL overrides the Garmin Connect origin.
func WithBaseURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			if !strings.HasSuffix(u, "/") {
				u += "/"
			}
			cl.baseURL = u
		}
	}
}

// WithVideoBaseURL overrides the video thumbnail origin.
func WithVideoBaseURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			cl.videoBaseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithLocale overrides the detail document locale.
func WithLocale(locale string) Option {
	return func(cl *Client) {
		if locale != "" {
			cl.locale = locale
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		videoBaseURL: DefaultVideoBaseURL,
		locale:       DefaultLocale,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCatalog retrieves and decodes one of the four catalog documents.
// These are whole-run prerequisites, so failures surface as retryable
// transport errors.
func (c *Client) FetchCatalog(ctx context.Context, ds Dataset) (*Catalog, error) {
	url := fmt.Sprintf("%sweb-data/exercises/%s.json", c.baseURL, ds)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, collerrors.WrapRetryable(err, collerrors.CodeTransportError, fmt.Sprintf("fetch %s catalog", ds))
	}
	var catalog Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, collerrors.Wrap(err, collerrors.CodeDocumentInvalid, fmt.Sprintf("decode %s catalog", ds))
	}
	return &catalog, nil
}

// FetchEquipment retrieves the exercise-to-equipment mapping document.
func (c *Client) FetchEquipment(ctx context.Context) ([]EquipmentCategory, error) {
	url := c.baseURL + "web-data/exercises/exerciseToEquipments.json"
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, collerrors.WrapRetryable(err, collerrors.CodeTransportError, "fetch equipment mapping")
	}
	var doc []EquipmentCategory
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, collerrors.Wrap(err, collerrors.CodeDocumentInvalid, "decode equipment mapping")
	}
	return doc, nil
}

// FetchTranslations retrieves the raw exercise_types.properties text.
func (c *Client) FetchTranslations(ctx context.Context) (string, error) {
	url := c.baseURL + "web-translations/exercise_types/exercise_types.properties"
	body, err := c.get(ctx, url)
	if err != nil {
		return "", collerrors.WrapRetryable(err, collerrors.CodeTransportError, "fetch translations")
	}
	return string(body), nil
}

// FetchDetail retrieves the per-exercise detail document. Callers treat any
// error as "no richer data available" rather than propagating it.
func (c *Client) FetchDetail(ctx context.Context, category, exerciseKey string) (*DetailDocument, error) {
	url := fmt.Sprintf("%sweb-data/exercises/%s/%s/%s.json", c.baseURL, c.locale, category, exerciseKey)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var doc DetailDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode detail %s/%s: %w", category, exerciseKey, err)
	}
	return &doc, nil
}

// DetailPageURL is the human-facing page for one exercise.
func (c *Client) DetailPageURL(category, exerciseKey string) string {
	return fmt.Sprintf("%smodern/exercises/%s/%s", c.baseURL, category, exerciseKey)
}

// HeroImageURL resolves a heroImage reference to an absolute URL.
func (c *Client) HeroImageURL(ref string) string {
	return strings.TrimSuffix(c.baseURL, "/") + ref
}

// VideoThumbnailURL resolves a video thumbnail reference to an absolute URL.
func (c *Client) VideoThumbnailURL(ref string) string {
	return c.videoBaseURL + ref
}

// ProbeURL checks that a resource exists with a lightweight HEAD request.
// A failed probe is never fatal; it only reports the resource as unreachable.
func (c *Client) ProbeURL(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("Image probe failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
