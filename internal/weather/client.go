package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/skaldlabs/weatherskald/internal/resilience"
)

const betterForecastPath = "/better_forecast"

// Sentinel errors for the forecast fetch. ErrUnreachable covers transport
// failures, ErrService covers responses the provider itself reports as
// failed, and ErrBadPayload covers responses that parse but do not carry a
// usable forecast.
var (
	ErrUnreachable = errors.New("weather service unreachable")
	ErrService     = errors.New("weather service rejected the request")
	ErrBadPayload  = errors.New("unexpected weather payload")
)

// Finer-grained causes used by the retry classifier.
var (
	errTransport   = fmt.Errorf("%w: transport failure", ErrUnreachable)
	errCircuitOpen = fmt.Errorf("%w: circuit breaker open", ErrUnreachable)
	errRateLimited = fmt.Errorf("%w: rate limited", ErrService)
	errServerError = fmt.Errorf("%w: server error", ErrService)
)

// retryable reports whether another attempt could plausibly succeed.
// Payload problems and client-side rejections are permanent; an open
// breaker means further attempts would be refused locally anyway.
func retryable(err error) bool {
	return errors.Is(err, errTransport) ||
		errors.Is(err, errRateLimited) ||
		errors.Is(err, errServerError)
}

// ClientConfig carries the collaborators and credentials for a Client.
type ClientConfig struct {
	BaseURL    string
	StationID  string
	Token      string
	HTTPClient *http.Client
	Retry      resilience.Config
	Logger     zerolog.Logger
}

// Client fetches station forecasts from the WeatherFlow REST API.
type Client struct {
	baseURL    string
	stationID  string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retry      resilience.Config
	log        zerolog.Logger
}

// NewClient builds a forecast client. A nil HTTPClient falls back to a
// client with a 30 second timeout.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherflow",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		stationID:  cfg.StationID,
		token:      cfg.Token,
		httpClient: httpClient,
		breaker:    breaker,
		retry:      cfg.Retry,
		log:        cfg.Logger,
	}
}

// Fetch retrieves the station's forecast and validates its shape. The
// request goes through the circuit breaker and the configured retry
// policy; credentials never appear in errors or logs.
func (c *Client) Fetch(ctx context.Context) (Report, error) {
	c.log.Debug().Str("station_id", c.stationID).Msg("Fetching forecast")

	var body []byte
	attempt := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetchBody(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return errCircuitOpen
			}
			return err
		}
		body = result.([]byte)
		return nil
	}

	if err := resilience.Retry(ctx, attempt, c.retry, retryable); err != nil {
		return Report{}, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	report, err := payload.report()
	if err != nil {
		return Report{}, err
	}

	c.log.Info().
		Str("station_id", c.stationID).
		Int("daily_entries", len(report.Daily)).
		Msg("Forecast received")
	return report, nil
}

// fetchBody performs a single forecast request and returns the raw
// response body.
func (c *Client) fetchBody(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.forecastURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTransport, redactError(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrService, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTransport, err)
	}
	return body, nil
}

// redactError strips the request URL from transport errors so the station
// token in its query string never reaches logs or callers.
func redactError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// forecastURL assembles the better_forecast request with the fixed unit
// preferences: Fahrenheit, mph, mmHg, inches and miles.
func (c *Client) forecastURL() string {
	values := url.Values{}
	values.Set("station_id", c.stationID)
	values.Set("units_temp", "f")
	values.Set("units_wind", "mph")
	values.Set("units_pressure", "mmhg")
	values.Set("units_precip", "in")
	values.Set("units_distance", "mi")
	values.Set("token", c.token)
	return fmt.Sprintf("%s%s?%s", c.baseURL, betterForecastPath, values.Encode())
}

// forecastPayload mirrors the slice of the better_forecast response the
// summary needs.
type forecastPayload struct {
	CurrentConditions *CurrentConditions `json:"current_conditions"`
	Forecast          struct {
		Daily []Day `json:"daily"`
	} `json:"forecast"`
}

func (p forecastPayload) report() (Report, error) {
	if p.CurrentConditions == nil {
		return Report{}, fmt.Errorf("%w: missing current_conditions", ErrBadPayload)
	}
	if len(p.Forecast.Daily) < forecastDays {
		return Report{}, fmt.Errorf("%w: %d daily forecast entries, need at least %d",
			ErrBadPayload, len(p.Forecast.Daily), forecastDays)
	}
	return Report{Current: *p.CurrentConditions, Daily: p.Forecast.Daily}, nil
}
