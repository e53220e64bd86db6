package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config_ParsePage(t *testing.T) {
	cfg := DefaultConfig()
	testCases := []struct {
		name     string
		page     string
		limit    string
		expected Page
	}{
		{name: "defaults", expected: Page{Number: 1, Limit: 12}},
		{name: "explicit", page: "3", limit: "5", expected: Page{Number: 3, Limit: 5}},
		{name: "garbage falls back", page: "x", limit: "y", expected: Page{Number: 1, Limit: 12}},
		{name: "non-positive falls back", page: "0", limit: "-4", expected: Page{Number: 1, Limit: 12}},
		{name: "limit capped", page: "2", limit: "1000", expected: Page{Number: 2, Limit: 100}},
		{name: "huge page clamped", page: "9223372036854775807", limit: "12", expected: Page{Number: math.MaxInt64 / 12, Limit: 12}},
		{name: "page beyond int falls back", page: "99999999999999999999", limit: "12", expected: Page{Number: 1, Limit: 12}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.ParsePage(tc.page, tc.limit))
		})
	}
}

func Test_Config_ParseSort(t *testing.T) {
	cfg := DefaultConfig()
	testCases := []struct {
		name     string
		field    string
		order    string
		expected Sort
	}{
		{name: "default newest first", expected: Sort{Field: "createdAt", Desc: true}},
		{name: "price ascending", field: "price", order: "asc", expected: Sort{Field: "price"}},
		{name: "name without order is descending", field: "name", expected: Sort{Field: "name", Desc: true}},
		{name: "unknown field uses default field", field: "password", order: "asc", expected: Sort{Field: "createdAt"}},
		{name: "order is case-insensitive", field: "brand", order: "ASC", expected: Sort{Field: "brand"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.ParseSort(tc.field, tc.order))
		})
	}
}

func Test_Page_Skip(t *testing.T) {
	assert.Equal(t, int64(0), Page{Number: 1, Limit: 12}.Skip())
	assert.Equal(t, int64(24), Page{Number: 3, Limit: 12}.Skip())
}

func Test_ParsePage_SkipNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	for _, limit := range []string{"1", "7", "12", "100", "1000"} {
		// given
		page := cfg.ParsePage("9223372036854775807", limit)
		// when
		skip := page.Skip()
		// then
		assert.GreaterOrEqual(t, skip, int64(0), "limit=%s", limit)
	}
}
