package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=-5", Params{Page: 1, Limit: 20, Offset: 0}},
		{"?page=2&limit=500", Params{Page: 2, Limit: 100, Offset: 100}},
		{"?page=x&limit=y", Params{Page: 1, Limit: 20, Offset: 0}},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/properties"+tt.query, nil)
		if got := ParsePagination(c); got != tt.want {
			t.Errorf("%q: expected %+v, got %+v", tt.query, tt.want, got)
		}
	}
}
