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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/decomment/common"
	"github.com/packetd/decomment/stripper"
)

var (
	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime",
			Help:      "Uptime in seconds",
		},
		common.Uptime,
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)

	stripRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "strip_requests_total",
			Help:      "Strip requests total",
		},
		[]string{"route", "code"},
	)

	inputBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "input_bytes_total",
			Help:      "Scanned input bytes total",
		},
	)

	outputBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "output_bytes_total",
			Help:      "Emitted output bytes total",
		},
	)

	commentsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "comments_removed_total",
			Help:      "Removed block comments total",
		},
	)

	shortWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "short_writes_total",
			Help:      "Short writes retried total",
		},
	)

	unterminatedComments = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "unterminated_comments_total",
			Help:      "Inputs ending inside a block comment total",
		},
	)

	stripDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: common.App,
			Name:      "strip_duration_seconds",
			Help:      "Strip duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

func observeStats(stats stripper.Stats, seconds float64) {
	inputBytes.Add(float64(stats.InputBytes))
	outputBytes.Add(float64(stats.OutputBytes))
	commentsRemoved.Add(float64(stats.Comments))
	shortWrites.Add(float64(stats.ShortWrites))
	if stats.Unterminated {
		unterminatedComments.Inc()
	}
	stripDuration.Observe(seconds)
}
