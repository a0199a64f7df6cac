package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	model "github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
)

type OAuthApiHandler struct {
	OAuth           *cloud.ZoomOAuthService
	FrontendUrlHost string
}

func NewOAuthApiHandler(conf utils.Config, oauthService *cloud.ZoomOAuthService) *OAuthApiHandler {
	return &OAuthApiHandler{
		OAuth:           oauthService,
		FrontendUrlHost: conf.FrontendUrlHost,
	}
}

// Authorize 发起会议账号授权，返回跳转地址与state。
func (h *OAuthApiHandler) Authorize(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	authURL, state := h.OAuth.AuthorizeURL(xl, userID)
	resp := model.ZoomAuthorizeResponse{AuthUrl: authURL, State: state}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// Callback 授权回调。操作者身份由state确定，换取token后跳回前端。
func (h *OAuthApiHandler) Callback(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		xl.Infof("oauth callback missing code or state")
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	operatorID, err := h.OAuth.ExchangeCode(xl, code, state)
	if err != nil {
		xl.Infof("oauth code exchange failed, error %v", err)
		if h.FrontendUrlHost != "" {
			c.Redirect(http.StatusFound, h.FrontendUrlHost+"/settings/conferencing?connected=0&reason="+url.QueryEscape(mapServerError(err).Message))
			return
		}
		sendServerError(c, requestID, err)
		return
	}
	xl.Infof("operator %s finished conferencing authorization", operatorID)
	if h.FrontendUrlHost != "" {
		c.Redirect(http.StatusFound, h.FrontendUrlHost+"/settings/conferencing?connected=1")
		return
	}
	model.NewSuccessResponse(map[string]interface{}{"connected": true}).WithRequestID(requestID).Send(c)
}

// Status 当前操作者是否已连接会议账号。
func (h *OAuthApiHandler) Status(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	resp := map[string]interface{}{"connected": h.OAuth.Connected(userID)}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// Disconnect 断开会议账号，清除本进程缓存的全部凭证。
func (h *OAuthApiHandler) Disconnect(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	h.OAuth.Disconnect(xl, userID)
	model.NewSuccessResponse(nil).WithRequestID(requestID).Send(c)
}
