package configs

import "time"

// Facebook holds configuration for the advertising platform's Graph API.
// The access token and ad account id have no defaults: both must come
// from the environment, never from source.
type Facebook struct {
	// BaseURL is the Graph API root including version.
	BaseURL string `env:"BASE_URL" envDefault:"https://graph.facebook.com/v22.0"`
	// AccessToken authorizes insights and ad-set reads.
	AccessToken string `env:"ACCESS_TOKEN"`
	// AdAccountID is the "act_"-prefixed ad account identifier.
	AdAccountID string `env:"AD_ACCOUNT_ID"`
	// TimeoutSeconds bounds each Graph API request.
	TimeoutSeconds int `env:"TIMEOUT_SECONDS" envDefault:"30"`
}

// Timeout returns the per-request timeout as a duration.
func (c Facebook) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
