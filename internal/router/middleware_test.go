package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func newScopeEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ShopperScopeMiddleware(3600))
	r.GET("/scope", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"shopper": c.GetString(constants.ContextShopperID),
			"tab":     c.GetString(constants.ContextTabID),
		})
	})
	return r
}

func TestShopperScopeMiddlewareGeneratesIDs(t *testing.T) {
	r := newScopeEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scope", nil))

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["shopper"] == "" || resp["tab"] == "" {
		t.Fatalf("scope ids should be generated: %v", resp)
	}
	if w.Header().Get(constants.HeaderShopperID) != resp["shopper"] || w.Header().Get(constants.HeaderTabID) != resp["tab"] {
		t.Fatalf("scope ids should be echoed in headers")
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, constants.CookieShopperID+"="+resp["shopper"]) || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("generated shopper id should be stored in cookie, got %q", cookie)
	}
}

func TestShopperScopeMiddlewareReadsHeadersCookieAndQuery(t *testing.T) {
	r := newScopeEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.Header.Set(constants.HeaderShopperID, "shopper-1")
	req.Header.Set(constants.HeaderTabID, "tab-1")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"shopper":"shopper-1"`) || !strings.Contains(w.Body.String(), `"tab":"tab-1"`) {
		t.Fatalf("header scope not used: %s", w.Body.String())
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("cookie should not be rewritten for known shopper")
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/scope?tab=tab-q", nil)
	req2.AddCookie(&http.Cookie{Name: constants.CookieShopperID, Value: "shopper-c"})
	r.ServeHTTP(w2, req2)
	if !strings.Contains(w2.Body.String(), `"shopper":"shopper-c"`) || !strings.Contains(w2.Body.String(), `"tab":"tab-q"`) {
		t.Fatalf("cookie/query scope not used: %s", w2.Body.String())
	}
}

func TestShopperScopeMiddlewareRejectsUnsafeIDs(t *testing.T) {
	r := newScopeEngine()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.Header.Set(constants.HeaderShopperID, "bad id:with*chars")
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
	if validScopeID(strings.Repeat("a", maxScopeIDLength+1)) {
		t.Fatalf("overlong id should be rejected")
	}
}

func TestCORSMiddlewareExposesScopeHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.example"}}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight want 204 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://shop.example" {
		t.Fatalf("unexpected allow origin: %s", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), constants.HeaderTabID) {
		t.Fatalf("tab header should be exposed")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), constants.HeaderShopperID) {
		t.Fatalf("shopper header should be allowed")
	}
}
