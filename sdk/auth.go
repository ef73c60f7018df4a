package sdk

import "net/http"

// addAuthHeaders attaches the bearer token to the request when one is
// configured. The SDK never acquires or refreshes tokens itself.
func (c *Client) addAuthHeaders(req *http.Request) {
	if c.token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}
