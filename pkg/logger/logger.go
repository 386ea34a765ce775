package logger

import (
	"os"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger

func init() {
	var zl *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	log = zl.Sugar()
}

func L() *zap.SugaredLogger {
	return log
}

func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

func Sync() {
	_ = log.Sync()
}
