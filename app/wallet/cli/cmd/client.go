package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// errorResponse is the body the node sends back on a failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// get calls the node and decodes the response into the specified value.
// It reports false when the node has nothing to return.
func get(path string, v any) (bool, error) {
	resp, err := http.Get(url + path)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	if err := decode(resp, v); err != nil {
		return false, err
	}

	return true, nil
}

// post sends the value to the node and decodes the response.
func post(path string, in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	resp, err := http.Post(url+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func decode(resp *http.Response, v any) error {
	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node responded %d", resp.StatusCode)
		}
		return fmt.Errorf("node responded %d: %s", resp.StatusCode, er.Error)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
