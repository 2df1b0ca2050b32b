package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj, accepting both the
// enveloped form the web client sends ({"lease": {...}}, {"property": {...}})
// and a flat body. When the envelope key is present its value wins.
func BindNestedOrFlat(c *gin.Context, key string, obj any) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	// Leave the body readable for any later binding
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if nested, ok := envelope[key]; ok {
			return json.Unmarshal(nested, obj)
		}
	}

	return json.Unmarshal(body, obj)
}
