package cloud

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	errors2 "github.com/Bleu24/ojt-crm-sub000/internal/protodef/errors"
)

const (
	// DefaultZoomRequestTimeout 调用服务商接口的默认超时时间。
	DefaultZoomRequestTimeout = 10 * time.Second
	// DefaultAuthStateExpire 授权state的默认有效时间。
	DefaultAuthStateExpire = 10 * time.Minute
	// TokenRefreshMargin 距离过期不足该时长时提前刷新access token。
	TokenRefreshMargin = 5 * time.Minute
)

// OAuthToken 单个操作者的会议服务商凭证，刷新或断开时整体替换。
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	ExpireAt     time.Time
	Scope        string
}

// TokenStore 进程内token缓存，按操作者ID隔离，不跨操作者共享。
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]OAuthToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]OAuthToken)}
}

func (s *TokenStore) Get(operatorID string) (OAuthToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[operatorID]
	return token, ok
}

func (s *TokenStore) Put(operatorID string, token OAuthToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[operatorID] = token
}

func (s *TokenStore) Delete(operatorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, operatorID)
}

type authState struct {
	operatorID string
	expireAt   time.Time
}

// ZoomOAuthService 负责授权URL生成、授权码换取token、token的缓存与刷新。
type ZoomOAuthService struct {
	conf         utils.ZoomConfig
	store        *TokenStore
	client       *http.Client
	refreshGroup singleflight.Group

	stateMu sync.Mutex
	states  map[string]authState

	stateExpire time.Duration
	xl          *xlog.Logger
}

func NewZoomOAuthService(conf utils.Config, xl *xlog.Logger) *ZoomOAuthService {
	if xl == nil {
		xl = xlog.New("ojt-crm-zoom-oauth")
	}
	timeout := DefaultZoomRequestTimeout
	if conf.Zoom.RequestTimeoutSecond > 0 {
		timeout = time.Duration(conf.Zoom.RequestTimeoutSecond) * time.Second
	}
	stateExpire := DefaultAuthStateExpire
	if conf.Zoom.AuthStateExpireSecond > 0 {
		stateExpire = time.Duration(conf.Zoom.AuthStateExpireSecond) * time.Second
	}
	return &ZoomOAuthService{
		conf:        *conf.Zoom,
		store:       NewTokenStore(),
		client:      &http.Client{Timeout: timeout},
		states:      make(map[string]authState),
		stateExpire: stateExpire,
		xl:          xl,
	}
}

// AuthorizeURL 生成跳转到服务商授权页的URL，state与操作者绑定用于防CSRF。
func (s *ZoomOAuthService) AuthorizeURL(xl *xlog.Logger, operatorID string) (string, string) {
	if xl == nil {
		xl = s.xl
	}
	state := uuid.NewString()
	s.stateMu.Lock()
	s.states[state] = authState{operatorID: operatorID, expireAt: time.Now().Add(s.stateExpire)}
	s.stateMu.Unlock()

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", s.conf.ClientID)
	query.Set("redirect_uri", s.conf.RedirectURL)
	query.Set("state", state)
	authURL := s.conf.AuthURL + "?" + query.Encode()
	xl.Debugf("generated authorize url for operator %s", operatorID)
	return authURL, state
}

// ExchangeCode 校验state并用授权码换取token，成功后写入缓存，返回对应的操作者ID。
// state一次性使用，无论成功失败都会被消耗。
func (s *ZoomOAuthService) ExchangeCode(xl *xlog.Logger, code string, state string) (string, error) {
	if xl == nil {
		xl = s.xl
	}
	s.stateMu.Lock()
	pending, ok := s.states[state]
	delete(s.states, state)
	s.stateMu.Unlock()
	if !ok || time.Now().After(pending.expireAt) {
		xl.Infof("unknown or expired oauth state")
		return "", &errors2.ServerError{Code: errors2.ServerErrorZoomBadState, Summary: "unknown or expired state"}
	}

	values := url.Values{}
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)
	values.Set("redirect_uri", s.conf.RedirectURL)
	token, err := s.requestToken(xl, values)
	if err != nil {
		return "", err
	}
	s.store.Put(pending.operatorID, *token)
	xl.Infof("operator %s connected conferencing account", pending.operatorID)
	return pending.operatorID, nil
}

// ValidAccessToken 返回当前有效的access token。距离过期超过安全余量时直接返回缓存值；
// 否则先刷新再返回。同一操作者的刷新串行执行，并发请求共享同一次刷新结果。
func (s *ZoomOAuthService) ValidAccessToken(xl *xlog.Logger, operatorID string) (string, error) {
	if xl == nil {
		xl = s.xl
	}
	token, ok := s.store.Get(operatorID)
	if !ok {
		return "", &errors2.ServerError{Code: errors2.ServerErrorZoomNotConnected, Summary: "operator not connected"}
	}
	if time.Until(token.ExpireAt) > TokenRefreshMargin {
		return token.AccessToken, nil
	}
	val, err, _ := s.refreshGroup.Do(operatorID, func() (interface{}, error) {
		// 进组后重读缓存，前一个并发请求可能已经完成了刷新。
		current, ok := s.store.Get(operatorID)
		if !ok {
			return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomNotConnected, Summary: "operator not connected"}
		}
		if time.Until(current.ExpireAt) > TokenRefreshMargin {
			return current.AccessToken, nil
		}
		refreshed, err := s.refreshToken(xl, operatorID, current)
		if err != nil {
			return nil, err
		}
		return refreshed.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Disconnect 清除操作者的全部凭证。
func (s *ZoomOAuthService) Disconnect(xl *xlog.Logger, operatorID string) {
	if xl == nil {
		xl = s.xl
	}
	s.store.Delete(operatorID)
	xl.Infof("operator %s disconnected conferencing account", operatorID)
}

// Connected 操作者当前是否持有凭证。
func (s *ZoomOAuthService) Connected(operatorID string) bool {
	_, ok := s.store.Get(operatorID)
	return ok
}

// PurgeExpiredStates 清理过期的授权state，由定时任务调用。
func (s *ZoomOAuthService) PurgeExpiredStates(xl *xlog.Logger) int {
	if xl == nil {
		xl = s.xl
	}
	now := time.Now()
	purged := 0
	s.stateMu.Lock()
	for state, pending := range s.states {
		if now.After(pending.expireAt) {
			delete(s.states, state)
			purged++
		}
	}
	s.stateMu.Unlock()
	if purged > 0 {
		xl.Debugf("purged %d expired oauth states", purged)
	}
	return purged
}

func (s *ZoomOAuthService) refreshToken(xl *xlog.Logger, operatorID string, current OAuthToken) (*OAuthToken, error) {
	values := url.Values{}
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", current.RefreshToken)
	token, err := s.requestToken(xl, values)
	if err != nil {
		// 刷新凭证已失效时清掉缓存，让调用方走重新授权而不是反复失败。
		if errors2.Is(err, errors2.ServerErrorZoomAuthExpired) {
			s.store.Delete(operatorID)
		}
		return nil, err
	}
	s.store.Put(operatorID, *token)
	xl.Infof("refreshed conferencing token for operator %s", operatorID)
	return token, nil
}

// requestToken 调用token端点，客户端凭证放Basic auth，body为表单编码。
func (s *ZoomOAuthService) requestToken(xl *xlog.Logger, values url.Values) (*OAuthToken, error) {
	req, err := http.NewRequest("POST", s.conf.TokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		xl.Errorf("error making token request err:%v", err)
		return nil, err
	}
	req.SetBasicAuth(s.conf.ClientID, s.conf.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			xl.Errorf("token endpoint timeout err:%v", err)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomTimeout, Summary: "token endpoint timeout"}
		}
		xl.Errorf("error invoke token endpoint err:%v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomUpstream, Summary: err.Error()}
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		result := gjson.ParseBytes(body)
		summary := result.Get("reason").String()
		if summary == "" {
			summary = result.Get("error").String()
		}
		xl.Errorf("token endpoint status %d reason %s", resp.StatusCode, summary)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
			// 授权码/刷新token已失效，需要重新走授权流程。
			return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomAuthExpired, Summary: summary}
		}
		return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomUpstream, Summary: summary}
	}

	result := gjson.ParseBytes(body)
	token := &OAuthToken{
		AccessToken:  result.Get("access_token").String(),
		RefreshToken: result.Get("refresh_token").String(),
		ExpireAt:     time.Now().Add(time.Duration(result.Get("expires_in").Int()) * time.Second),
		Scope:        result.Get("scope").String(),
	}
	if token.AccessToken == "" {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorZoomUpstream, Summary: "token endpoint returned no access_token"}
	}
	return token, nil
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	if ok && netErr.Timeout() {
		return true
	}
	urlErr, ok := err.(*url.Error)
	return ok && urlErr.Timeout()
}
