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

// @title 招聘运营API
// @version 1.0
// @description 招聘运营API
// @host localhost:8080
// @BasePath /v1

package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"

	"github.com/Bleu24/ojt-crm-sub000/internal/common/utils"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/cloud"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/task"
	"github.com/Bleu24/ojt-crm-sub000/internal/service/web"
)

var (
	configFilePath = "ojt-crm.conf"
)

func main() {
	fmt.Println(time.Now())
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run ojt-crm server")
	flag.Parse()

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)
	rand.Seed(time.Now().UnixNano())

	// token缓存是进程内状态，授权、面试编排和定时清理共用同一个实例。
	oauthService := cloud.NewZoomOAuthService(utils.DefaultConf, nil)

	// 启动定时任务
	go func() {
		janitorTask, err := task.NewJanitorTask(utils.DefaultConf, oauthService)
		if err != nil {
			log.Fatalf("failed to create janitor task, error %v", err)
		}
		_ = gocron.Every(5).Minutes().Do(janitorTask.Start)
		<-gocron.Start()
	}()

	// 启动 gin HTTP server。
	r, err := web.NewRouter(&utils.DefaultConf, oauthService)
	if err != nil {
		log.Fatalf("failed to create gin HTTP server, error %v", err)
	}

	errch := make(chan error, 1)
	go func() {
		httpServerErr := r.Run(utils.DefaultConf.ListenAddr)
		errch <- httpServerErr
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-qC:
		log.Info(s.String())
	case err = <-errch:
		log.Error("http server stopped, error", err.Error())
	}
}
