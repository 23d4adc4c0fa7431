package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

// Adapter encapsulates one upstream exchange's quote API: it issues the
// provider-specific request, parses the provider-specific JSON shape, and
// maps it into the normalized Quote. Failures are typed ProviderErrors.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) (*model.Quote, error)
}

// maxErrorBody bounds how much of an upstream error body is kept in the
// error message.
const maxErrorBody = 512

// fetchJSON issues a GET against url and decodes the JSON body into out.
// Transport failures map to network errors; non-2xx statuses and
// undecodable bodies map to upstream errors.
func fetchJSON(ctx context.Context, client *httpx.Client, name, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperr.NewNetworkError(name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return apperr.NewNetworkError(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperr.NewUpstreamError(name, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.NewUpstreamError(name, fmt.Errorf("malformed response body: %w", err))
	}
	return nil
}

// parsePrice parses a required numeric string field, failing with a schema
// error when the field is absent or not a number.
func parsePrice(name, field, raw string) (float64, error) {
	if raw == "" {
		return 0, apperr.NewSchemaError(name, fmt.Errorf("missing field %q", field))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.NewSchemaError(name, fmt.Errorf("field %q: %w", field, err))
	}
	return v, nil
}

// parseOptional parses a numeric string field the upstream may omit,
// returning nil when absent. A present but unparsable value is still a
// schema error.
func parseOptional(name, field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.NewSchemaError(name, fmt.Errorf("field %q: %w", field, err))
	}
	return &v, nil
}
