package pagination

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/reviews", nil)
	p := FromRequest(req)

	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/reviews?limit=5&offset=40", nil)
	p := FromRequest(req)

	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 40, p.Offset)
}

func TestFromRequest_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"over max", "limit=500", MaxLimit},
		{"zero", "limit=0", DefaultLimit},
		{"negative", "limit=-3", DefaultLimit},
		{"garbage", "limit=abc", DefaultLimit},
		{"at max", "limit=100", 100},
		{"minimum", "limit=1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/reviews?"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(req).Limit)
		})
	}
}

func TestFromRequest_NegativeOffsetFallsBack(t *testing.T) {
	req := httptest.NewRequest("GET", "/reviews?offset=-10", nil)
	assert.Equal(t, 0, FromRequest(req).Offset)
}

func TestNewResult_EchoesParams(t *testing.T) {
	p := Params{Limit: 10, Offset: 30}
	res := NewResult([]string{"a", "b"}, p)

	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 30, res.Offset)
	assert.Len(t, res.Data, 2)
}

func TestNewResult_NilDataBecomesEmptyArray(t *testing.T) {
	res := NewResult[string](nil, DefaultParams())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":[]`)
}
