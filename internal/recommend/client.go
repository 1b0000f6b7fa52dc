package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httpclient"
)

// request is the profile payload sent to the recommender.
type request struct {
	BirthDate        string   `json:"birth_date,omitempty"`
	Region           string   `json:"region,omitempty"`
	IncomeBand       string   `json:"income_band,omitempty"`
	Education        string   `json:"education,omitempty"`
	MaritalStatus    string   `json:"marital_status,omitempty"`
	Major            string   `json:"major,omitempty"`
	EmploymentStatus []string `json:"employment_status,omitempty"`
	SpecialGroup     []string `json:"special_group,omitempty"`
	Interests        []string `json:"interests,omitempty"`
	TopK             int      `json:"top_k"`
}

type response struct {
	Recommendations []string `json:"recommendations"`
}

// defaultTopK is how many policy names the recommender is asked for.
const defaultTopK = 5

// Client calls the external recommendation model over HTTP. Calls run through
// a circuit breaker so a dead model cannot pile up requests here.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	topK    int
}

// NewClient creates a recommender client for the given base URL.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, topK int) *Client {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Client{
		http:    http,
		baseURL: baseURL,
		topK:    topK,
	}
}

// Recommend sends the member's profile and returns the recommended policy
// names. The names are model output and may include policies no longer in the
// catalog; the caller resolves them.
func (c *Client) Recommend(ctx context.Context, user *domain.User) ([]string, error) {
	payload := request{
		BirthDate:        user.BirthDate,
		Region:           user.Region,
		IncomeBand:       user.IncomeBand,
		Education:        user.Education,
		MaritalStatus:    user.MaritalStatus,
		Major:            user.Major,
		EmploymentStatus: user.EmploymentStatus,
		SpecialGroup:     user.SpecialGroup,
		Interests:        user.Interests,
		TopK:             c.topK,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal recommend request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/recommend", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Unavailable("recommendation service is unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "recommender")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recommend response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode recommend response: %w", err)
	}

	if parsed.Recommendations == nil {
		parsed.Recommendations = []string{}
	}
	return parsed.Recommendations, nil
}
