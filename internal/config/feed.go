package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/eldadfux/isAWSback/internal/constants"
)

// FeedConfig holds the status feed acquisition settings. FetchTimeout and
// Freshness are the two tunables the acquisition core exposes.
type FeedConfig struct {
	URL          string        `json:"url" yaml:"url"`
	UserAgent    string        `json:"user_agent" yaml:"user_agent"`
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`
	Freshness    time.Duration `json:"freshness" yaml:"freshness"`
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		URL:          constants.DefaultFeedURL,
		UserAgent:    constants.DefaultUserAgent,
		FetchTimeout: constants.DefaultFetchTimeout,
		Freshness:    constants.DefaultFreshness,
	}
}

func (c *FeedConfig) Validate() error {
	parsed, err := url.Parse(c.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("feed URL %q is not a valid absolute URL", c.URL)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Freshness <= 0 {
		return fmt.Errorf("freshness window must be positive")
	}
	return nil
}
