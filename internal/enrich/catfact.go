// Package enrich holds the outbound clients used to decorate todo items:
// a random cat fact at creation time and a current weather summary on reads.
//
// Both clients keep their failures distinguishable: ErrUnavailable covers
// transport failures and non-2xx answers, anything else (body read, decode)
// is an unexpected failure. Callers decide what placeholder text to show.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable marks failures to reach the remote service at all.
var ErrUnavailable = errors.New("enrich: service unavailable")

const requestTimeout = time.Second * 10

type factResponse struct {
	Fact string `json:"fact"`
}

type CatFacts struct {
	baseURL string
	client  *http.Client
}

func NewCatFacts(baseURL string) *CatFacts {
	return &CatFacts{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Fact fetches one random cat fact. An empty fact in the payload is returned
// as ("", nil) so callers can tell it apart from a failed call.
func (c *CatFacts) Fact(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fact", nil)
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

	var payload factResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding cat fact: %w", err)
	}

	return payload.Fact, nil
}
