// Copyright 2025 The decomment Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/decomment/common"
	"github.com/packetd/decomment/confengine"
	"github.com/packetd/decomment/internal/rescue"
	"github.com/packetd/decomment/logger"
	"github.com/packetd/decomment/server"
	"github.com/packetd/decomment/stripper"
)

const shutdownTimeout = 10 * time.Second

type Controller struct {
	buildInfo common.BuildInfo
	svr       *server.Server
	opts      atomic.Pointer[stripper.Options]
	errCh     chan error
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := validateConfig(conf); err != nil {
		return nil, err
	}
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	opts, err := loadStripperOptions(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		buildInfo: buildInfo,
		svr:       svr,
		errCh:     make(chan error, 1),
	}
	c.opts.Store(&opts)
	c.setupServer()
	return c, nil
}

// Options 返回当前生效的 stripper 配置
func (c *Controller) Options() stripper.Options {
	return *c.opts.Load()
}

// Handler 返回 HTTP 路由 主要用于测试
func (c *Controller) Handler() http.Handler {
	return c.svr.Handler()
}

// Start 在后台启动 HTTP 服务 监听失败会通过 Err() 返回
func (c *Controller) Start() error {
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Set(1)

	go c.serve(c.svr.ListenAndServe)
	return nil
}

// serve 运行 fn 返回错误或发生 panic 时通知 Err()
func (c *Controller) serve(fn func() error) {
	defer rescue.HandleCrash(func(r any) {
		c.sendErr(errors.Errorf("server panic: %v", r))
	})

	err := fn()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("failed to start server: %v", err)
		c.sendErr(err)
	}
}

func (c *Controller) sendErr(err error) {
	select {
	case c.errCh <- err:
	default:
	}
}

// Err 服务异常退出时收到错误
func (c *Controller) Err() <-chan error {
	return c.errCh
}

// Reload 重载配置
//
// 仅支持重载 stripper 配置 server 地址等变更需要重启进程
func (c *Controller) Reload(conf *confengine.Config) error {
	opts, err := loadStripperOptions(conf)
	if err != nil {
		return err
	}
	c.opts.Store(&opts)
	logger.Infof("stripper options reloaded: maxAttempts=%d strict=%v", opts.MaxAttempts, opts.Strict)
	return nil
}

func (c *Controller) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.svr.Shutdown(ctx); err != nil {
		logger.Warnf("failed to shutdown server: %v", err)
	}
}
