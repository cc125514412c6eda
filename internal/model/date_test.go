package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCzechDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected CzechDate
		wantErr  bool
	}{
		{name: "plain form", input: "11. 6. 2025", expected: NewCzechDate(2025, time.June, 11)},
		{name: "no spaces", input: "11.6.2025", expected: NewCzechDate(2025, time.June, 11)},
		{name: "leading zeros", input: "05. 06. 2025", expected: NewCzechDate(2025, time.June, 5)},
		{name: "surrounding whitespace", input: "  27. 1. 2025 ", expected: NewCzechDate(2025, time.January, 27)},
		{name: "missing part", input: "11. 6.", wantErr: true},
		{name: "month out of range", input: "11. 13. 2025", wantErr: true},
		{name: "not a date", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseCzechDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, parsed)
			}
		})
	}
}

func TestCzechDate_String(t *testing.T) {
	assert.Equal(t, "11. 6. 2025", NewCzechDate(2025, time.June, 11).String())
	assert.Equal(t, "5. 6. 2025", NewCzechDate(2025, time.June, 5).String())
	assert.Equal(t, "", CzechDate{}.String())
}

func TestCzechDate_JSON(t *testing.T) {
	type doc struct {
		Date CzechDate `json:"date"`
	}

	payload, err := json.Marshal(doc{Date: NewCzechDate(2025, time.June, 11)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"date":"11. 6. 2025"}`, string(payload))

	var parsed doc
	assert.NoError(t, json.Unmarshal(payload, &parsed))
	assert.Equal(t, NewCzechDate(2025, time.June, 11), parsed.Date)

	// Zero dates travel as null and come back zero.
	payload, err = json.Marshal(doc{})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(payload))
	var zero doc
	assert.NoError(t, json.Unmarshal(payload, &zero))
	assert.True(t, zero.Date.IsZero())

	var fromEmpty doc
	assert.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &fromEmpty))
	assert.True(t, fromEmpty.Date.IsZero())
}

func TestCzechDate_Scan(t *testing.T) {
	var d CzechDate
	assert.NoError(t, d.Scan(time.Date(2025, time.June, 11, 15, 4, 5, 0, time.Local)))
	assert.Equal(t, NewCzechDate(2025, time.June, 11), d)

	assert.NoError(t, d.Scan("2025-06-05"))
	assert.Equal(t, NewCzechDate(2025, time.June, 5), d)

	assert.NoError(t, d.Scan("2025-06-05T00:00:00Z"))
	assert.Equal(t, NewCzechDate(2025, time.June, 5), d)

	assert.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
