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
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/decomment/internal/mapfile"
	"github.com/packetd/decomment/logger"
	"github.com/packetd/decomment/stripper"
)

type watchCmdConfig struct {
	Input  string
	Output string
	Strict bool
}

var watchConfig watchCmdConfig

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Strip the input file again whenever it changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts := stripper.Options{Strict: watchConfig.Strict}
		if err := watchFile(ctx, watchConfig.Input, watchConfig.Output, opts, nil); err != nil {
			fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", watchConfig.Input, err)
			logger.Sync()
			os.Exit(1)
		}
	},
	Example: "# decomment watch -i main.c -o build/main.c",
}

func init() {
	watchCmd.Flags().StringVarP(&watchConfig.Input, "input", "i", "", "Path to the input file (required)")
	watchCmd.Flags().StringVarP(&watchConfig.Output, "output", "o", "", "Path to the output file (required)")
	watchCmd.Flags().BoolVar(&watchConfig.Strict, "strict", false, "Treat an unterminated trailing comment as an error")
	_ = watchCmd.MarkFlagRequired("input")
	_ = watchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(watchCmd)
}

// watchFile 先执行一次 runStrip 之后每当 input 被写入或重新创建时再次执行
//
// 监听的是 input 所在目录 以兼容编辑器先写临时文件再重命名的保存方式
// 单次失败只记录日志 不会中断监听 onDone 在每次执行后回调 允许为空
func watchFile(ctx context.Context, input, outputPath string, opts stripper.Options, onDone func(stripper.Stats, error)) error {
	input, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(input))
	}

	run := func() {
		stats, err := runStrip(mapfile.ReadFile, input, outputPath, opts)
		if err != nil {
			logger.Errorf("%s: %v", input, err)
		} else {
			logger.Infof("%s: stripped %d comments", input, stats.Comments)
		}
		if onDone != nil {
			onDone(stats, err)
		}
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != input {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				run()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}
