package logger

import (
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是一个全局的、配置好的 logrus 实例
var Log *logrus.Logger

// InitLogger 初始化全局的Logger实例：JSON格式，同时输出到控制台和文件
func InitLogger() {
	Log = logrus.New()

	// 结构化日志，便于ELK、Loki等工具分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "clipnest.log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("无法打开日志文件: %v", err)
	}

	mw := io.MultiWriter(os.Stdout, file)
	Log.SetOutput(mw)

	Log.SetLevel(logrus.InfoLevel)
}
