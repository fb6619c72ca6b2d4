package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoltalk/toolbox/pkg/schema"
)

type location struct {
	City    string `json:"city" validate:"required" jsonschema:"description=The city name"`
	Country string `json:"country,omitempty"`
}

type forecastRequest struct {
	Location location `json:"location"`
	Days     int      `json:"days,omitempty" jsonschema:"description=Number of days to forecast"`
	Units    string   `json:"units,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
}

type searchRequest struct {
	Query   string   `json:"query" validate:"required"`
	Filters []string `json:"filters,omitempty"`
}

func Test_New(t *testing.T) {
	s, err := schema.New(reflect.TypeOf(searchRequest{}))
	require.NoError(t, err)
	require.NotNil(t, s.Parameters)

	js, err := json.Marshal(s.Parameters)
	require.NoError(t, err)
	body := string(js)
	assert.Contains(t, body, `"type":"object"`)
	assert.Contains(t, body, `"query"`)
	assert.Contains(t, body, `"filters"`)
	assert.Contains(t, body, `"required":["query"]`)
	// the flattened parameters carry no dangling references
	assert.NotContains(t, body, "$ref")
	assert.NotContains(t, body, "$defs")
}

func Test_New_Nested(t *testing.T) {
	s, err := schema.New(reflect.TypeOf(forecastRequest{}))
	require.NoError(t, err)

	js, err := json.Marshal(s.Parameters)
	require.NoError(t, err)
	body := string(js)
	assert.Contains(t, body, `"location"`)
	assert.Contains(t, body, `"city"`)
	assert.Contains(t, body, `"The city name"`)
	assert.Contains(t, body, `"enum":["celsius","fahrenheit"]`)
	assert.NotContains(t, body, "$ref")
}

func Test_New_Cached(t *testing.T) {
	s1, err := schema.New(reflect.TypeOf(searchRequest{}))
	require.NoError(t, err)
	s2, err := schema.New(reflect.TypeOf(searchRequest{}))
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

func Test_Schema_String(t *testing.T) {
	s, err := schema.New(reflect.TypeOf(searchRequest{}))
	require.NoError(t, err)
	assert.Contains(t, s.String(), `"query"`)
}
