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

package errors

import "encoding/json"

// ServerError 服务端内部错误与非正常返回结果定义
type ServerError struct {
	Code    int    `json:"code"`
	Summary string `json:"summary"`
}

func (e *ServerError) Error() string {
	buf, _ := json.Marshal(e)
	return string(buf)
}

func New(code int, summary string) *ServerError {
	return &ServerError{Code: code, Summary: summary}
}

// Is 判断err是否为指定错误码的ServerError。
func Is(err error, code int) bool {
	serverErr, ok := err.(*ServerError)
	return ok && serverErr.Code == code
}

// 各种服务端内部错误的错误码定义。错误码为5位数字。
const (
	// 1开头表示服务端内部，或数据库访问相关的错误。
	ServerErrorUserNotLoggedin  = 10001
	ServerErrorUserNoPermission = 10003
	ServerErrorUserNotfound     = 10004
	ServerErrorRecruitNotFound  = 10005
	ServerErrorValidation       = 10006
	ServerErrorMongoOpFail      = 11000
	// 2开头表示外部服务错误。
	// ServerErrorZoomNotConnected 当前操作者没有可用的会议服务商授权，调用方需要引导重新授权。
	ServerErrorZoomNotConnected = 20001
	// ServerErrorZoomAuthExpired 服务商返回401，已有授权失效。
	ServerErrorZoomAuthExpired = 20002
	// ServerErrorZoomBadRequest 服务商返回400，会议参数非法。
	ServerErrorZoomBadRequest = 20003
	// ServerErrorZoomNotFound 服务商返回404，用户或会议不存在。
	ServerErrorZoomNotFound = 20004
	// ServerErrorZoomUpstream 服务商其他错误，保留原始信息。
	ServerErrorZoomUpstream = 20005
	// ServerErrorZoomTimeout 调用服务商超时。
	ServerErrorZoomTimeout = 20006
	// ServerErrorZoomBadState 授权回调的state无效或已过期。
	ServerErrorZoomBadState = 20007
	// ServerErrorMailSendFail 邮件发送失败。
	ServerErrorMailSendFail = 20011
)
