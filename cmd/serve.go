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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/packetd/decomment/common"
	"github.com/packetd/decomment/confengine"
	"github.com/packetd/decomment/controller"
	"github.com/packetd/decomment/internal/sigs"
	"github.com/packetd/decomment/logger"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run decomment as an HTTP service",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(serveConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, common.GetBuildInfo())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if _, err := maxprocs.Set(maxprocs.Logger(logger.Infof)); err != nil {
			logger.Warnf("failed to set GOMAXPROCS: %v", err)
		}

		// 须在启动服务前注册 /-/reload 依赖 SIGHUP 已被监听
		terminate := sigs.Terminate()
		reload := sigs.Reload()
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		for {
			select {
			case <-terminate:
				ctr.Stop()
				logger.Sync()
				return

			case <-reload:
				cfg, err := confengine.LoadConfigPath(serveConfigPath)
				if err != nil {
					logger.Errorf("failed to reload config: %v", err)
					continue
				}
				if err := ctr.Reload(cfg); err != nil {
					logger.Errorf("failed to reload controller: %v", err)
				}

			case err := <-ctr.Err():
				fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
				logger.Sync()
				os.Exit(1)
			}
		}
	},
	Example: "# decomment serve --config decomment.yaml\n# curl --data-binary @main.c http://127.0.0.1:9093/strip",
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Configuration file path, defaults are used if empty")
	rootCmd.AddCommand(serveCmd)
}
