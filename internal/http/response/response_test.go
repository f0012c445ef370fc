package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeEnvelope(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"item_count": 3})

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	resp := decodeEnvelope(t, w.Body.Bytes())
	if resp["status_code"].(float64) != CodeOK || resp["msg"] != "success" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	data := resp["data"].(map[string]interface{})
	if data["item_count"].(float64) != 3 {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeBadRequest, "bad")

	if w.Code != http.StatusOK {
		t.Fatalf("business errors keep http 200, got %d", w.Code)
	}
	resp := decodeEnvelope(t, w.Body.Bytes())
	if resp["status_code"].(float64) != CodeBadRequest {
		t.Fatalf("status_code want 400 got %v", resp["status_code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["request_id"] != "req-1" {
		t.Fatalf("request id should be attached, got %v", data)
	}
}

func TestErrorWithDataKeepsPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-2")

	ErrorWithData(c, CodeServiceUnavailable, "checkout unavailable", gin.H{"status": "checkout_unavailable"})

	data := decodeEnvelope(t, w.Body.Bytes())["data"].(map[string]interface{})
	if data["status"] != "checkout_unavailable" || data["request_id"] != "req-2" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestAttachRequestIDWrapsNonMapData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("request_id", "req-3")

	got, ok := attachRequestID(c, []string{"a"}).(gin.H)
	if !ok {
		t.Fatalf("non-map data should be wrapped")
	}
	if got["request_id"] != "req-3" {
		t.Fatalf("unexpected wrapped data: %v", got)
	}
	if attachRequestID(nil, "x") != "x" {
		t.Fatalf("data without request id should pass through")
	}
}
