package shared

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParsePageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{query: "", page: 1, pageSize: 20},
		{query: "page=3&page_size=50", page: 3, pageSize: 50},
		{query: "page=-1&page_size=500", page: 1, pageSize: 100},
		{query: "page=abc&page_size=0", page: 1, pageSize: 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)
		page, pageSize := ParsePageQuery(c)
		if page != tc.page || pageSize != tc.pageSize {
			t.Fatalf("query %q: want %d/%d got %d/%d", tc.query, tc.page, tc.pageSize, page, pageSize)
		}
	}
}

func TestParseDateQuery(t *testing.T) {
	empty, err := ParseDateQuery("  ")
	if err != nil || empty != nil {
		t.Fatalf("expected nil for empty input, got %v %v", empty, err)
	}

	day, err := ParseDateQuery("2026-03-15")
	if err != nil {
		t.Fatalf("parse date failed: %v", err)
	}
	if day.Location() != time.Local || day.Day() != 15 || day.Hour() != 0 {
		t.Fatalf("unexpected date: %v", day)
	}

	ts, err := ParseDateQuery("2026-03-15T10:30:00Z")
	if err != nil || ts.Hour() != 10 {
		t.Fatalf("parse rfc3339 failed: %v %v", ts, err)
	}

	if _, err := ParseDateQuery("15/03/2026"); err == nil {
		t.Fatalf("expected unsupported layout to fail")
	}
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]bool{"12": true, "0": false, "-3": false, "x": false}
	for raw, ok := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		if _, got := ParseUintParam(c, "id"); got != ok {
			t.Fatalf("param %q: want ok=%v", raw, ok)
		}
	}
}
