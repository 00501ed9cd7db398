// Package logging 提供基于 zerolog 的统一日志入口
//
// 每个子系统通过 GetLogger("ComponentName") 获取带 component 字段的 logger，
// 替代旧代码中的 log.Printf("[Tag] ...") 前缀写法。
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger 根据 verbosity 配置全局 logger，输出到 stderr
//
//   - 0: Warn
//   - 1: Info
//   - 2: Debug（附带调用位置）
//   - 3+: Trace
func SetupLogger(verbosity int) {
	SetupLoggerTo(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}, verbosity)
}

// SetupLoggerTo 与 SetupLogger 相同，但输出到指定 writer（测试、工具使用）
func SetupLoggerTo(w io.Writer, verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger 返回带 component 字段的 logger
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Must 在 err 非 nil 时记录 fatal 日志并退出
func Must(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}
