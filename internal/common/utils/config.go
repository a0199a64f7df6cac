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

package utils

import (
	"log"

	qconfig "github.com/qiniu/x/config"
)

var (
	DefaultConf Config
)

func InitConf(configFilePath string) {
	err := qconfig.LoadFile(&DefaultConf, configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
}

// MongoConfig mongo 数据库配置。
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// ZoomConfig 会议服务商OAuth与会议API配置。
type ZoomConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	// AuthURL 授权页地址，用户浏览器跳转到这里完成授权。
	AuthURL string `json:"auth_url"`
	// TokenURL 换取/刷新token的地址。
	TokenURL string `json:"token_url"`
	// APIBaseURL 会议资源API的前缀，如 https://api.zoom.us/v2。
	APIBaseURL  string `json:"api_base_url"`
	RedirectURL string `json:"redirect_url"`
	// RequestTimeoutSecond 调用服务商接口的超时时间，默认10秒。
	RequestTimeoutSecond int `json:"request_timeout_s"`
	// AuthStateExpireSecond 授权state的有效时间，默认600秒。
	AuthStateExpireSecond int `json:"auth_state_expire_s"`
}

// MailConfig 发送邮件的配置。
type MailConfig struct {
	Enabled  bool   `json:"enabled"`
	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
	Username string `json:"username"`
	Password string `json:"password"`
	ReplyTo  string `json:"reply_to"`
	// Provider 邮件发送器类型，test表示仅记录日志不真正发送。
	Provider string `json:"provider"`
}

// Config 全局配置。
type Config struct {
	DebugLevel int    `json:"debug_level"`
	ListenAddr string `json:"listen_addr"`

	Mongo *MongoConfig `json:"mongo"`
	Zoom  *ZoomConfig  `json:"zoom"`
	Mail  *MailConfig  `json:"mail"`

	// JwtKey 登录token签名用的密钥。
	JwtKey string `json:"jwt_key"`

	// FrontendUrlHost 前端地址，OAuth回调完成后跳转用。
	FrontendUrlHost string `json:"frontend_url_host"`
}
