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

package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidLevel 判断 s 是否为支持的日志级别 忽略大小写和首尾空白
func ValidLevel(s string) bool {
	_, ok := levels[Level(normalizeLevel(s))]
	return ok
}

func toZapLevel(l string) zapcore.Level {
	if level, ok := levels[Level(l)]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// Options 日志配置
//
// Stdout/Stderr 同时为 false 时写入 Filename 并按 MaxSize/MaxAge/MaxBackups 轮转
// 命令行模式下标准输出可能承载处理结果 因此默认使用 Stderr
type Options struct {
	Stdout     bool   `config:"stdout"`
	Stderr     bool   `config:"stderr"`
	Level      string `config:"level"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxAge     int    `config:"maxAge"`  // unit: days
	MaxBackups int    `config:"maxBackups"`
}

func (o *Options) Validate() {
	if o.Filename == "" {
		o.Filename = "decomment.log"
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 10
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 7
	}
	if o.MaxSize <= 0 {
		o.MaxSize = 100
	}
}

type Logger struct {
	sugared *zap.SugaredLogger
}

func (l Logger) Debugf(template string, args ...any) {
	l.sugared.Debugf(template, args...)
}

func (l Logger) Infof(template string, args ...any) {
	l.sugared.Infof(template, args...)
}

func (l Logger) Warnf(template string, args ...any) {
	l.sugared.Warnf(template, args...)
}

func (l Logger) Errorf(template string, args ...any) {
	l.sugared.Errorf(template, args...)
}

func (l Logger) Sync() error {
	return l.sugared.Sync()
}

func newWriter(opt Options) zapcore.WriteSyncer {
	switch {
	case opt.Stdout:
		return zapcore.AddSync(os.Stdout)
	case opt.Stderr:
		return zapcore.Lock(os.Stderr)
	}

	// 初始化日志目录
	if err := os.MkdirAll(filepath.Dir(opt.Filename), os.ModePerm); err != nil {
		panic(err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opt.Filename,
		MaxSize:    opt.MaxSize,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAge,
		LocalTime:  true,
	})
}

// New 创建并返回标准 Logger 实例
func New(opt Options) Logger {
	return newWithSyncer(opt, newWriter(opt))
}

// NewWithWriter 使用指定 io.Writer 创建 Logger 主要用于测试
func NewWithWriter(opt Options, w io.Writer) Logger {
	return newWithSyncer(opt, zapcore.AddSync(w))
}

func newWithSyncer(opt Options, w zapcore.WriteSyncer) Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := toZapLevel(opt.Level)
	core := zapcore.NewCore(encoder, w, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return Logger{
		sugared: logger.Sugar(),
	}
}

var (
	stdOpt = Options{Stderr: true, Level: string(LevelInfo)}
	std    = New(stdOpt)
)

// SetOptions 设置全局 Logger 配置
func SetOptions(opt Options) {
	stdOpt = opt
	std = New(opt)
}

// SetLoggerLevel 设置全局 Logger 日志级别
func SetLoggerLevel(s string) {
	stdOpt.Level = normalizeLevel(s)
	std = New(stdOpt)
}

func Debugf(template string, args ...any) {
	std.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	std.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	std.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	std.Errorf(template, args...)
}

// Sync 刷新全局 Logger 缓冲 进程退出前调用
func Sync() {
	_ = std.Sync()
}
