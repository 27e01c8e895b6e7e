package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{total: 0, pageSize: 20, want: 0},
		{total: 20, pageSize: 20, want: 1},
		{total: 21, pageSize: 20, want: 2},
		{total: 5, pageSize: 0, want: 0},
	}
	for _, tc := range cases {
		if got := NewPagination(1, tc.pageSize, tc.total).TotalPage; got != tc.want {
			t.Fatalf("total=%d size=%d: want %d got %d", tc.total, tc.pageSize, tc.want, got)
		}
	}
}

func TestErrorCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeNotFound, "missing")

	if w.Code != 200 {
		t.Fatalf("envelope errors must use http 200, got %d", w.Code)
	}
	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.StatusCode != CodeNotFound || body.Msg != "missing" || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSuccessOmitsPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"ok": true})

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, ok := body["pagination"]; ok {
		t.Fatalf("plain success should not carry pagination: %v", body)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := WrapError(CodeInternal, "internal", cause)
	if !errors.Is(err, cause) || err.Error() != "internal: db down" {
		t.Fatalf("unexpected wrap behaviour: %v", err)
	}
}
