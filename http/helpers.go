package http

import "context"

// Get sends a GET request with a default client
func Get(ctx context.Context, url string, query interface{}, headers Headers) (*Response, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, url, query, headers)
}

// Post sends a form encoded POST request with a default client
func Post(ctx context.Context, url string, data interface{}, headers Headers) (*Response, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	return client.Post(ctx, url, data, false, headers)
}

// PostJSON sends a JSON encoded POST request with a default client
func PostJSON(ctx context.Context, url string, data interface{}, headers Headers) (*Response, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	return client.Post(ctx, url, data, true, headers)
}
