package models

// SearchResult is the envelope the search service returns: the ranked
// listings plus enough context for the caller to explain an empty set.
type SearchResult struct {
	Listings []Listing `json:"listings"`
	Provider string    `json:"provider"`
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	Message  string    `json:"message,omitempty"`
}

// ProviderStatus reports whether a provider has the credentials it
// needs to serve requests.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"available"`
	Model      string `json:"model,omitempty"`
}
