// Package external contains clients for public drug-terminology services.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// RxNormConfig represents configuration for the RxNorm (RxNav) API client.
type RxNormConfig struct {
	BaseURL   string        `json:"base_url"`
	Timeout   time.Duration `json:"timeout"`
	RateLimit int           `json:"rate_limit"` // requests per second
}

// DrugConcept is a normalized drug concept returned by RxNorm.
type DrugConcept struct {
	RxCUI          string    `json:"rxcui"`
	Name           string    `json:"name"`
	IngredientName string    `json:"ingredient_name,omitempty"`
	Score          int       `json:"score"`
	RetrievedAt    time.Time `json:"retrieved_at"`
}

// RxNormClient handles interactions with the NLM RxNav REST API. All calls
// go through a shared rate limiter and a circuit breaker, so a degraded
// upstream fails fast instead of stalling dose checks.
type RxNormClient struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewRxNormClient creates a new RxNorm API client.
func NewRxNormClient(config RxNormConfig, logger *logrus.Logger) *RxNormClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://rxnav.nlm.nih.gov"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10 // RxNav guidance: max 20 requests per second per IP
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "RxNorm",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &RxNormClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		breaker:   breaker,
		logger:    logger,
	}
}

// approximateTermResponse is the RxNav approximateTerm.json payload.
type approximateTermResponse struct {
	ApproximateGroup struct {
		Candidate []struct {
			RxCUI string `json:"rxcui"`
			Score string `json:"score"`
			Name  string `json:"name"`
		} `json:"candidate"`
	} `json:"approximateGroup"`
}

// relatedResponse is the RxNav related.json payload filtered to ingredients.
type relatedResponse struct {
	RelatedGroup struct {
		ConceptGroup []struct {
			TTY             string `json:"tty"`
			ConceptProperty []struct {
				RxCUI string `json:"rxcui"`
				Name  string `json:"name"`
			} `json:"conceptProperties"`
		} `json:"conceptGroup"`
	} `json:"relatedGroup"`
}

// NormalizeDrugName resolves a free-text drug name to its closest RxNorm
// concept, including the underlying ingredient where one exists. Returns an
// error when RxNorm has no candidate for the name.
func (c *RxNormClient) NormalizeDrugName(ctx context.Context, name string) (*DrugConcept, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("drug name cannot be empty")
	}

	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.approximateTerm(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("rxnorm lookup for %q failed: %w", name, err)
	}
	concept := result.(*DrugConcept)

	// Best effort: a missing ingredient never fails the lookup.
	if ingredient, err := c.lookupIngredient(ctx, concept.RxCUI); err == nil {
		concept.IngredientName = ingredient
	} else {
		c.logger.WithError(err).WithField("rxcui", concept.RxCUI).Debug("Ingredient lookup failed")
	}

	c.logger.WithFields(logrus.Fields{
		"input":      name,
		"rxcui":      concept.RxCUI,
		"name":       concept.Name,
		"ingredient": concept.IngredientName,
	}).Debug("Normalized drug name via RxNorm")

	return concept, nil
}

func (c *RxNormClient) approximateTerm(ctx context.Context, name string) (*DrugConcept, error) {
	endpoint := fmt.Sprintf("%s/REST/approximateTerm.json?term=%s&maxEntries=1", c.baseURL, url.QueryEscape(name))

	var payload approximateTermResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	candidates := payload.ApproximateGroup.Candidate
	if len(candidates) == 0 || candidates[0].RxCUI == "" {
		return nil, fmt.Errorf("no RxNorm candidate for %q", name)
	}

	score := 0
	fmt.Sscanf(candidates[0].Score, "%d", &score)

	return &DrugConcept{
		RxCUI:       candidates[0].RxCUI,
		Name:        candidates[0].Name,
		Score:       score,
		RetrievedAt: time.Now(),
	}, nil
}

func (c *RxNormClient) lookupIngredient(ctx context.Context, rxcui string) (string, error) {
	if err := c.rateLimit.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/REST/rxcui/%s/related.json?tty=IN", c.baseURL, url.PathEscape(rxcui))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var payload relatedResponse
		if err := c.getJSON(ctx, endpoint, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
	if err != nil {
		return "", err
	}

	payload := result.(*relatedResponse)
	for _, group := range payload.RelatedGroup.ConceptGroup {
		if group.TTY != "IN" {
			continue
		}
		for _, prop := range group.ConceptProperty {
			if prop.Name != "" {
				return prop.Name, nil
			}
		}
	}
	return "", fmt.Errorf("no ingredient concept for rxcui %s", rxcui)
}

func (c *RxNormClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
