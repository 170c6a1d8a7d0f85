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
	"net"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/decomment/confengine"
	"github.com/packetd/decomment/logger"
	"github.com/packetd/decomment/server"
	"github.com/packetd/decomment/stripper"
)

// maxAttemptsLimit 防止配置过大导致异常 Sink 长时间空转
const maxAttemptsLimit = 1000

func setupLogger(conf *confengine.Config) error {
	if !conf.Has("logger") {
		return nil
	}

	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}
	opts.Validate()
	logger.SetOptions(opts)
	return nil
}

func loadStripperOptions(conf *confengine.Config) (stripper.Options, error) {
	var opts stripper.Options
	if err := conf.UnpackChild("stripper", &opts); err != nil {
		return opts, err
	}
	if opts.MaxAttempts < 0 || opts.MaxAttempts > maxAttemptsLimit {
		return opts, errors.Errorf("stripper.maxAttempts (%d) out of range [0, %d]", opts.MaxAttempts, maxAttemptsLimit)
	}
	opts.Validate()
	return opts, nil
}

// validateConfig 一次性检查所有配置段 返回全部错误
func validateConfig(conf *confengine.Config) error {
	var errs error
	if _, err := loadStripperOptions(conf); err != nil {
		errs = multierror.Append(errs, err)
	}

	var sc server.Config
	if err := conf.UnpackChild("server", &sc); err != nil {
		errs = multierror.Append(errs, err)
	} else {
		if sc.Address != "" {
			if _, _, err := net.SplitHostPort(sc.Address); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "invalid server.address (%s)", sc.Address))
			}
		}
		if sc.MaxBodySize < 0 {
			errs = multierror.Append(errs, errors.Errorf("server.maxBodySize (%d) must not be negative", sc.MaxBodySize))
		}
	}

	var lo logger.Options
	if err := conf.UnpackChild("logger", &lo); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}
