package output

import (
	"fmt"

	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/tidwall/gjson"
)

// Query extracts path from a JSON response body. Objects and arrays come back
// as raw JSON, scalars as their string form.
func Query(resp *http.Response, path string) (string, error) {
	if !gjson.Valid(resp.Body) {
		return "", fmt.Errorf("response body is not JSON")
	}

	result := gjson.Get(resp.Body, path)
	if !result.Exists() {
		return "", fmt.Errorf("no value at path %q", path)
	}

	if result.IsObject() || result.IsArray() {
		return result.Raw, nil
	}
	return result.String(), nil
}
