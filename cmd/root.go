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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/decomment/common"
	"github.com/packetd/decomment/internal/mapfile"
	"github.com/packetd/decomment/logger"
	"github.com/packetd/decomment/output"
	"github.com/packetd/decomment/stripper"
)

type stripCmdConfig struct {
	Input  string
	Output string
}

var stripConfig stripCmdConfig

var rootCmd = &cobra.Command{
	Use:   common.App + " -i <file> [-o <file>]",
	Short: "Remove /* ... */ block comments while keeping line breaks",
	Long: "decomment copies the input file to the output with every block comment removed.\n" +
		"All other bytes, including the newlines inside and around comments, are kept verbatim.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := runStrip(mapfile.Open, stripConfig.Input, stripConfig.Output, stripper.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", common.App, err)
			logger.Sync()
			os.Exit(1)
		}
	},
	Example: "# decomment -i main.c -o main.nocomments.c",
}

func init() {
	rootCmd.Flags().StringVarP(&stripConfig.Input, "input", "i", "", "Path to the input file (required)")
	rootCmd.Flags().StringVarP(&stripConfig.Output, "output", "o", "", "Path to the output file, standard output if empty")
	_ = rootCmd.MarkFlagRequired("input")
}

// Execute 执行命令行 参数错误时打印用法并以失败状态退出
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

type loadFunc func(path string) (*mapfile.File, error)

// runStrip 使用 load 读取 input 移除块注释后写入 output (为空时写入标准输出)
//
// 打开输入输出失败时不会进入扫描流程
// 输出文件在出错时内容不完整 不应继续使用
func runStrip(load loadFunc, input, outputPath string, opts stripper.Options) (stripper.Stats, error) {
	var stats stripper.Stats
	if outputPath != "" && sameFile(input, outputPath) {
		return stats, errors.Errorf("input and output refer to the same file (%s)", input)
	}

	src, err := load(input)
	if err != nil {
		return stats, errors.Wrap(err, "open input")
	}
	defer src.Close()

	dst, err := output.Open(outputPath)
	if err != nil {
		return stats, err
	}

	stats, err = stripper.Strip(dst, src.Bytes(), opts)
	if err != nil {
		dst.Close()
		return stats, errors.Wrap(err, "strip comments")
	}
	if err := dst.Close(); err != nil {
		return stats, errors.Wrap(err, "close output")
	}

	if stats.Unterminated {
		logger.Warnf("%s: unterminated comment at offset %d, trailing comment dropped", input, stats.UnterminatedOffset)
	}
	logger.Debugf("%s: removed %d comments, %d/%d bytes written", input, stats.Comments, stats.OutputBytes, stats.InputBytes)
	return stats, nil
}
