// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/protodef/model"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/web/handler"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/web/middleware"
)

// NewRouter @title 招聘运营API
// @version 0.0.1
// @description  http apis
// @BasePath /v1
// NewRouter 返回gin router，分流API。
func NewRouter(config *utils.Config, oauthService *cloud.ZoomOAuthService) (*gin.Engine, error) {
	// 1. 初始化GIN
	router := gin.New()
	router.Use(gin.Recovery())
	// 1.1. 全局CORS配置
	router.Use(corsMiddleware())

	// 2. 声明Service
	accountApiHandler := handler.NewAccountApiHandler(*config)
	recruitApiHandler := handler.NewRecruitApiHandler(*config, oauthService)
	oauthApiHandler := handler.NewOAuthApiHandler(*config, oauthService)
	meetingApiHandler := handler.NewMeetingApiHandler(*config, oauthService)

	middleware.InitMiddleware(*config)

	// 3. 配置V1路径
	v1 := router.Group("/v1", addApiVersion(model.ApiVersionV1), addRequestID, middleware.FetchPageInfo, middleware.ActionLogMiddleware())
	{
		// 3.1 注册
		v1.POST("signUp", accountApiHandler.SignUp)
		v1.POST("signUp/", accountApiHandler.SignUp)
		// 3.2 登录
		v1.POST("signIn", accountApiHandler.SignIn)
		v1.POST("signIn/", accountApiHandler.SignIn)
		// 3.3 授权回调，操作者身份由state确定，不要求登录态。
		v1.GET("zoom/callback", oauthApiHandler.Callback)
	}
	baseAuth := v1.Group("", middleware.Authenticate)
	{
		// 3.4 登出
		baseAuth.POST("signOut", accountApiHandler.SignOut)
		baseAuth.POST("signOut/", accountApiHandler.SignOut)
		// 3.5 用户信息获取
		baseAuth.GET("accountInfo", accountApiHandler.GetAccountInfo)
		baseAuth.GET("accountInfo/", accountApiHandler.GetAccountInfo)
		baseAuth.GET("accountInfo/:accountId", accountApiHandler.GetAccountInfo)

		// 4.1 应聘者-录入
		baseAuth.POST("recruit", recruitApiHandler.CreateRecruit)
		baseAuth.POST("recruit/", recruitApiHandler.CreateRecruit)
		// 4.2 应聘者-列表
		baseAuth.GET("recruit", recruitApiHandler.ListRecruits)
		baseAuth.GET("recruit/", recruitApiHandler.ListRecruits)
		// 4.3 应聘者-详情
		baseAuth.GET("recruit/:recruitId", recruitApiHandler.GetRecruit)
		// 4.4 应聘者-安排初面
		baseAuth.POST("recruit/:recruitId/scheduleInitialInterview", recruitApiHandler.ScheduleInitialInterview)
		// 4.5 应聘者-完成初面
		baseAuth.POST("recruit/:recruitId/completeInitialInterview", recruitApiHandler.CompleteInitialInterview)
		// 4.6 应聘者-安排终面
		baseAuth.POST("recruit/:recruitId/scheduleFinalInterview", recruitApiHandler.ScheduleFinalInterview)
		// 4.7 应聘者-完成终面
		baseAuth.POST("recruit/:recruitId/completeFinalInterview", recruitApiHandler.CompleteFinalInterview)
		// 4.8 应聘者-转移归属
		baseAuth.POST("recruit/:recruitId/assign", recruitApiHandler.AssignRecruit)
		// 4.9 应聘者-取消某阶段的线上会议
		baseAuth.POST("recruit/:recruitId/cancelMeeting/:phase", recruitApiHandler.CancelInterviewMeeting)

		// 5.1 会议账号授权
		baseAuth.GET("zoom/authorize", oauthApiHandler.Authorize)
		baseAuth.GET("zoom/status", oauthApiHandler.Status)
		baseAuth.POST("zoom/disconnect", oauthApiHandler.Disconnect)

		// 5.2 会议管理
		baseAuth.GET("meetings", meetingApiHandler.ListMeetings)
		baseAuth.GET("meetings/", meetingApiHandler.ListMeetings)
		baseAuth.GET("meetings/:meetingId", meetingApiHandler.GetMeeting)
		baseAuth.POST("meetings/:meetingId", meetingApiHandler.UpdateMeeting)
		baseAuth.DELETE("meetings/:meetingId", meetingApiHandler.DeleteMeeting)
	}

	router.NoRoute(addRequestID, returnNotFound)
	router.RedirectTrailingSlash = false

	return router, nil
}

// 增加当前接口调用版本
func addApiVersion(version model.ApiVersion) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(model.RequestApiVersion, version)
	}
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	responseErr := model.NewResponseErrorNotFound()
	resp := model.NewFailResponse(*responseErr)
	c.JSON(http.StatusOK, resp)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, HEAD")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
