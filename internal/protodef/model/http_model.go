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

package model

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
	http_model.go: 规定API的参数与返回值的定义，***Args 表示 *** 接口的参数，***Response表示 *** 接口的返回体格式。
*/

const (
	// RequestIDHeader request ID 头部。
	RequestIDHeader = "X-Reqid"
	// XLogKey gin context中，用于获取记录请求相关日志的 xlog logger的key。
	XLogKey = "xlog-logger"

	// UserIDContextKey 存放在请求context 中的用户ID。
	UserIDContextKey = "userID"
	// UserContextKey 存放用户对象
	UserContextKey = "user"

	//ActionLogContentKey 用于存放log
	ActionLogContentKey = "action-log"

	// PageNumContextKey 存放在请求context 中的分页参数。
	PageNumContextKey  = "pageNum"
	PageSizeContextKey = "pageSize"

	// RequestStartKey 存放在gin context中的请求开始的时间戳，单位为纳秒。
	RequestStartKey = "request-start-timestamp-nano"

	// RequestApiVersion
	RequestApiVersion            = "request-api-version"
	ApiVersionV1      ApiVersion = "v1"

	// 状态码和状态信息
	ResponseStatusCodeSuccess    ResponseStatusCode    = 0
	ResponseStatusMessageSuccess ResponseStatusMessage = "success"
)

// API Version
type ApiVersion string

// 状态码和状态信息
type ResponseStatusCode int
type ResponseStatusMessage string

type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    int(ResponseStatusCodeSuccess),
		Message: string(ResponseStatusMessageSuccess),
		Data:    data,
	}
}

func NewFailResponse(err ResponseError) *Response {
	return &Response{
		Code:    err.Code,
		Message: err.Message,
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

func (r *Response) WithData(data interface{}) *Response {
	r.Data = data
	return r
}

func (r *Response) Send(c *gin.Context) {
	c.JSON(http.StatusOK, r)
}

// AccountInfoResponse 账号信息返回体，不含密码等敏感字段。
type AccountInfoResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Nickname string      `json:"nickname"`
	Role     AccountRole `json:"role"`
}

func NewAccountInfoResponse(account *AccountDo) AccountInfoResponse {
	return AccountInfoResponse{
		ID:       account.ID,
		Email:    account.Email,
		Nickname: account.Nickname,
		Role:     account.Role,
	}
}

type Pagination struct {
	Total          int           `json:"total"`
	NextId         string        `json:"nextId"`
	Cnt            int           `json:"cnt"`
	CurrentPageNum int           `json:"currentPageNum"`
	NextPageNum    int           `json:"nextPageNum"`
	PageSize       int           `json:"pageSize"`
	EndPage        bool          `json:"endPage"`
	List           []interface{} `json:"list"`
}
