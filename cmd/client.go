package main

import "github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"

// newClient builds the HTTP client shared by all commands from the loaded
// config.
func newClient() fetcher.Client {
	return fetcher.NewHTTPClient(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    cfg.Fetch.Timeout(),
		MaxRetries: cfg.Fetch.MaxRetries,
	})
}
