package cloud

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
)

func newTestOAuthService(tokenURL string) *ZoomOAuthService {
	conf := utils.Config{
		Zoom: &utils.ZoomConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AuthURL:      "https://zoom.example.com/oauth/authorize",
			TokenURL:     tokenURL,
			APIBaseURL:   "https://api.zoom.example.com/v2",
			RedirectURL:  "https://crm.example.com/v1/zoom/callback",
		},
	}
	return NewZoomOAuthService(conf, xlog.New("test-oauth"))
}

func TestAuthorizeURLAndExchangeCode(t *testing.T) {
	var gotGrant, gotCode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if user != "client-id" || pass != "client-secret" {
			t.Errorf("unexpected basic auth %s:%s", user, pass)
		}
		r.ParseForm()
		gotGrant = r.PostFormValue("grant_type")
		gotCode = r.PostFormValue("code")
		fmt.Fprint(w, `{"access_token":"at-1","refresh_token":"rt-1","expires_in":3600,"scope":"meeting:write"}`)
	}))
	defer server.Close()

	service := newTestOAuthService(server.URL)
	authURL, state := service.AuthorizeURL(nil, "user-1")
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("bad authorize url: %v", err)
	}
	if parsed.Query().Get("state") != state {
		t.Errorf("authorize url state mismatch")
	}
	if parsed.Query().Get("response_type") != "code" {
		t.Errorf("authorize url missing response_type")
	}

	operatorID, err := service.ExchangeCode(nil, "the-code", state)
	if err != nil {
		t.Fatalf("exchange code failed: %v", err)
	}
	if operatorID != "user-1" {
		t.Errorf("expect operator user-1, got %s", operatorID)
	}
	if gotGrant != "authorization_code" || gotCode != "the-code" {
		t.Errorf("unexpected token request grant:%s code:%s", gotGrant, gotCode)
	}

	accessToken, err := service.ValidAccessToken(nil, "user-1")
	if err != nil {
		t.Fatalf("valid access token failed: %v", err)
	}
	if accessToken != "at-1" {
		t.Errorf("expect at-1, got %s", accessToken)
	}
}

func TestExchangeCodeBadState(t *testing.T) {
	service := newTestOAuthService("http://127.0.0.1:1/token")
	_, err := service.ExchangeCode(nil, "code", "never-issued")
	if !errors2.Is(err, errors2.ServerErrorZoomBadState) {
		t.Errorf("expect bad state error, got %v", err)
	}

	// state是一次性的，用过一次后再用应当失败。
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","expires_in":3600}`)
	}))
	defer server.Close()
	service = newTestOAuthService(server.URL)
	_, state := service.AuthorizeURL(nil, "user-1")
	if _, err := service.ExchangeCode(nil, "code", state); err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}
	if _, err := service.ExchangeCode(nil, "code", state); !errors2.Is(err, errors2.ServerErrorZoomBadState) {
		t.Errorf("expect bad state on reuse, got %v", err)
	}
}

func TestValidAccessTokenNotConnected(t *testing.T) {
	service := newTestOAuthService("http://127.0.0.1:1/token")
	_, err := service.ValidAccessToken(nil, "stranger")
	if !errors2.Is(err, errors2.ServerErrorZoomNotConnected) {
		t.Errorf("expect not connected error, got %v", err)
	}
}

func TestValidAccessTokenRefreshesNearExpiry(t *testing.T) {
	var refreshCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostFormValue("grant_type") != "refresh_token" {
			t.Errorf("expect refresh_token grant, got %s", r.PostFormValue("grant_type"))
		}
		if r.PostFormValue("refresh_token") != "rt-old" {
			t.Errorf("unexpected refresh token %s", r.PostFormValue("refresh_token"))
		}
		atomic.AddInt64(&refreshCount, 1)
		fmt.Fprint(w, `{"access_token":"at-new","refresh_token":"rt-new","expires_in":3600}`)
	}))
	defer server.Close()

	service := newTestOAuthService(server.URL)
	// 距过期只剩1分钟，低于安全余量，应当触发刷新。
	service.store.Put("user-1", OAuthToken{
		AccessToken:  "at-old",
		RefreshToken: "rt-old",
		ExpireAt:     time.Now().Add(time.Minute),
	})
	accessToken, err := service.ValidAccessToken(nil, "user-1")
	if err != nil {
		t.Fatalf("valid access token failed: %v", err)
	}
	if accessToken != "at-new" {
		t.Errorf("expect refreshed token, got %s", accessToken)
	}
	stored, _ := service.store.Get("user-1")
	if stored.RefreshToken != "rt-new" {
		t.Errorf("refreshed token not persisted, refresh token %s", stored.RefreshToken)
	}
	// 刷新后再取应当直接命中缓存。
	if _, err := service.ValidAccessToken(nil, "user-1"); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if count := atomic.LoadInt64(&refreshCount); count != 1 {
		t.Errorf("expect exactly 1 refresh, got %d", count)
	}
}

func TestValidAccessTokenSingleflight(t *testing.T) {
	var refreshCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCount, 1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{"access_token":"at-new","refresh_token":"rt-new","expires_in":3600}`)
	}))
	defer server.Close()

	service := newTestOAuthService(server.URL)
	service.store.Put("user-1", OAuthToken{
		AccessToken:  "at-old",
		RefreshToken: "rt-old",
		ExpireAt:     time.Now().Add(time.Minute),
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accessToken, err := service.ValidAccessToken(nil, "user-1")
			if err != nil {
				t.Errorf("concurrent refresh failed: %v", err)
				return
			}
			if accessToken != "at-new" {
				t.Errorf("expect at-new, got %s", accessToken)
			}
		}()
	}
	wg.Wait()
	if count := atomic.LoadInt64(&refreshCount); count != 1 {
		t.Errorf("expect 1 upstream refresh for 10 callers, got %d", count)
	}
}

func TestRefreshAuthExpiredClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"reason":"Invalid Token!","error":"invalid_grant"}`)
	}))
	defer server.Close()

	service := newTestOAuthService(server.URL)
	service.store.Put("user-1", OAuthToken{
		AccessToken:  "at-old",
		RefreshToken: "rt-dead",
		ExpireAt:     time.Now().Add(time.Minute),
	})
	_, err := service.ValidAccessToken(nil, "user-1")
	if !errors2.Is(err, errors2.ServerErrorZoomAuthExpired) {
		t.Fatalf("expect auth expired error, got %v", err)
	}
	// 凭证失效后应当清缓存，后续调用提示重新授权。
	_, err = service.ValidAccessToken(nil, "user-1")
	if !errors2.Is(err, errors2.ServerErrorZoomNotConnected) {
		t.Errorf("expect not connected after invalid grant, got %v", err)
	}
}

func TestDisconnect(t *testing.T) {
	service := newTestOAuthService("http://127.0.0.1:1/token")
	service.store.Put("user-1", OAuthToken{AccessToken: "at", ExpireAt: time.Now().Add(time.Hour)})
	if !service.Connected("user-1") {
		t.Fatal("expect connected before disconnect")
	}
	service.Disconnect(nil, "user-1")
	if service.Connected("user-1") {
		t.Error("expect disconnected")
	}
}

func TestPurgeExpiredStates(t *testing.T) {
	service := newTestOAuthService("http://127.0.0.1:1/token")
	service.stateExpire = -time.Second
	service.AuthorizeURL(nil, "user-1")
	service.AuthorizeURL(nil, "user-2")
	service.stateExpire = time.Hour
	_, fresh := service.AuthorizeURL(nil, "user-3")

	purged := service.PurgeExpiredStates(nil)
	if purged != 2 {
		t.Errorf("expect 2 purged states, got %d", purged)
	}
	service.stateMu.Lock()
	_, ok := service.states[fresh]
	remaining := len(service.states)
	service.stateMu.Unlock()
	if !ok || remaining != 1 {
		t.Errorf("fresh state should survive purge, remaining %d", remaining)
	}
}
