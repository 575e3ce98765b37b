package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger は、タイムスタンプ付きで指定レベル以上を出力するロガーを作成します
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Setup は、パッケージレベルのロガーを設定します。
// レベルの文字列が不正な場合は info レベルを使用し、警告を出力します
func Setup(w io.Writer, level string) *log.Logger {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	logger := NewLogger(w, parsed)
	log.SetDefault(logger)

	if err != nil {
		logger.Warn("不正なログレベルです。info を使用します", "input", level)
	}
	return logger
}
