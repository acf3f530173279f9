package internal

import (
	"context"
	"net/url"
)

const (
	projectsPath   = "api/v1/projects"
	namespacesPath = "api/v1/namespaces"
)

// Client talks to the hub on behalf of the logged-in user
type Client struct {
	cfg         Config
	requests    *RequestManager
	credentials *CredentialStore

	Samples *SampleClient
	Views   *ViewClient
}

// NewClient wires the resource clients around one request manager and credential store
func NewClient(cfg Config, requests *RequestManager, credentials *CredentialStore) *Client {
	c := &Client{cfg: cfg, requests: requests, credentials: credentials}
	c.Samples = &SampleClient{hub: c}
	c.Views = &ViewClient{hub: c}
	return c
}

// authHeaders reads the stored credential for every call so logout takes effect immediately
func (c *Client) authHeaders() (map[string]string, error) {
	token, err := c.credentials.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (c *Client) send(ctx context.Context, method, target string, params url.Values, body any) (*Response, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	return c.requests.Send(ctx, Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Params:  params,
		Body:    body,
	})
}

// projectRef renders namespace/name:tag for messages
func projectRef(namespace, name, tag string) string {
	return namespace + "/" + name + ":" + normalizeTag(tag)
}

func tagParams(tag string) url.Values {
	return url.Values{"tag": {normalizeTag(tag)}}
}
