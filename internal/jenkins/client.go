// Package jenkins is a thin client over the Jenkins JSON API.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// JobSummary is the projection of a Jenkins job returned by the proxy.
type JobSummary struct {
	Host  string `json:"host"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// Build is the projection of a single build's data.
type Build struct {
	Host              string  `json:"host"`
	ID                string  `json:"id"`
	Building          bool    `json:"building"`
	Description       *string `json:"description"`
	DisplayName       string  `json:"displayName"`
	Duration          int64   `json:"duration"`
	EstimatedDuration int64   `json:"estimatedDuration"`
	FullDisplayName   string  `json:"fullDisplayName"`
	Result            *string `json:"result"`
	InProgress        bool    `json:"inProgress"`
}

type Client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
}

func NewClient(baseURL, username, apiToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping reports whether the Jenkins host answers its JSON API.
func (c *Client) Ping(ctx context.Context) error {
	var payload struct{}
	return c.get(ctx, c.baseURL+"/api/json", &payload)
}

// Jobs lists the jobs on the configured Jenkins host.
func (c *Client) Jobs(ctx context.Context) ([]JobSummary, error) {
	var payload struct {
		Jobs []struct {
			Name  string `json:"name"`
			URL   string `json:"url"`
			Color string `json:"color"`
		} `json:"jobs"`
	}
	if err := c.get(ctx, c.baseURL+"/api/json", &payload); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]JobSummary, 0, len(payload.Jobs))
	for _, j := range payload.Jobs {
		jobs = append(jobs, JobSummary{
			Host:  c.baseURL,
			Name:  j.Name,
			URL:   j.URL,
			Color: j.Color,
		})
	}
	return jobs, nil
}

// BuildData fetches one build of a job.
func (c *Client) BuildData(ctx context.Context, jobName string, buildNumber int) (*Build, error) {
	url := fmt.Sprintf("%s/job/%s/%d/api/json", c.baseURL, jobName, buildNumber)

	var b Build
	if err := c.get(ctx, url, &b); err != nil {
		return nil, fmt.Errorf("get build %s/%d: %w", jobName, buildNumber, err)
	}
	b.Host = c.baseURL
	return &b, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jenkins responded %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
