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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
	"github.com/valyala/bytebufferpool"

	"github.com/packetd/decomment/internal/json"
	"github.com/packetd/decomment/internal/rescue"
	"github.com/packetd/decomment/internal/sigs"
	"github.com/packetd/decomment/logger"
	"github.com/packetd/decomment/stripper"
)

const (
	headerRequestID = "X-Request-Id"
	headerComments  = "X-Decomment-Comments"
	headerChecksum  = "X-Decomment-Checksum"
)

func (c *Controller) setupServer() {
	c.svr.Use(rescue.Middleware)

	// Strip Routes
	c.svr.RegisterPostRoute("/strip", c.routeStrip)
	c.svr.RegisterPostRoute("/inspect", c.routeInspect)

	// Admin Routes
	c.svr.RegisterGetRoute("/-/healthy", c.routeHealthy)
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)
	c.svr.RegisterPostRoute("/-/reload", c.routeReload)

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", promhttp.Handler().ServeHTTP)
}

func writeError(w http.ResponseWriter, route string, code int, err error) {
	stripRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	http.Error(w, err.Error(), code)
}

// readRequest 读取请求体并解析 query 中的 strict 参数
func (c *Controller) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, stripper.Options, int, error) {
	opts := c.Options()
	if v := r.URL.Query().Get("strict"); v != "" {
		strict, err := cast.ToBoolE(v)
		if err != nil {
			return nil, opts, http.StatusBadRequest, errors.Wrapf(err, "invalid strict parameter (%s)", v)
		}
		opts.Strict = strict
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, c.svr.Config().MaxBodySize))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, opts, http.StatusRequestEntityTooLarge, err
		}
		return nil, opts, http.StatusBadRequest, err
	}
	return body, opts, http.StatusOK, nil
}

// strip 执行一次 Strip 并记录指标 返回失败时应使用的状态码
func strip(w io.Writer, body []byte, opts stripper.Options, rid string) (stripper.Stats, int, error) {
	start := time.Now()
	stats, err := stripper.Strip(w, body, opts)
	observeStats(stats, time.Since(start).Seconds())

	if stats.Unterminated {
		logger.Warnf("request %s: unterminated comment at offset %d", rid, stats.UnterminatedOffset)
	}
	switch {
	case err == nil:
		return stats, http.StatusOK, nil
	case errors.Is(err, stripper.ErrUnterminatedComment):
		return stats, http.StatusUnprocessableEntity, err
	default:
		logger.Errorf("request %s: failed to strip comments: %v", rid, err)
		return stats, http.StatusInternalServerError, err
	}
}

func (c *Controller) routeStrip(w http.ResponseWriter, r *http.Request) {
	const route = "strip"
	rid := uuid.New().String()
	w.Header().Set(headerRequestID, rid)

	body, opts, code, err := c.readRequest(w, r)
	if err != nil {
		writeError(w, route, code, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	stats, code, err := strip(buf, body, opts, rid)
	if err != nil {
		writeError(w, route, code, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(headerComments, strconv.Itoa(stats.Comments))
	w.Header().Set(headerChecksum, strconv.FormatUint(xxhash.Sum64(buf.B), 16))
	stripRequests.WithLabelValues(route, strconv.Itoa(http.StatusOK)).Inc()
	_, _ = w.Write(buf.B)
}

// InspectResponse /inspect 的响应体
type InspectResponse struct {
	RequestID string         `json:"requestId"`
	Checksum  string         `json:"checksum"`
	Stats     stripper.Stats `json:"stats"`
}

func (c *Controller) routeInspect(w http.ResponseWriter, r *http.Request) {
	const route = "inspect"
	rid := uuid.New().String()
	w.Header().Set(headerRequestID, rid)

	body, opts, code, err := c.readRequest(w, r)
	if err != nil {
		writeError(w, route, code, err)
		return
	}

	// 只需要统计信息 输出直接写入哈希
	digest := xxhash.New()
	stats, code, err := strip(digest, body, opts, rid)
	if err != nil {
		writeError(w, route, code, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	stripRequests.WithLabelValues(route, strconv.Itoa(http.StatusOK)).Inc()
	if err := json.NewEncoder(w).Encode(InspectResponse{
		RequestID: rid,
		Checksum:  strconv.FormatUint(digest.Sum64(), 16),
		Stats:     stats,
	}); err != nil {
		logger.Warnf("request %s: failed to encode response: %v", rid, err)
	}
}

func (c *Controller) routeHealthy(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	if !logger.ValidLevel(level) {
		http.Error(w, fmt.Sprintf("unsupported logger level (%s)", level), http.StatusBadRequest)
		return
	}
	logger.SetLoggerLevel(level)
	_, _ = w.Write([]byte(`{"status": "success"}`))
}

// routeReload 触发 SIGHUP 由 serve 命令重新加载配置文件
func (c *Controller) routeReload(w http.ResponseWriter, _ *http.Request) {
	if err := sigs.SelfReload(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(`{"status": "success"}`))
}
