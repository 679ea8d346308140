package common

import (
	"fmt"

	"github.com/golang/glog"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL     LogLevel = 1
	DEBUG_INFO            LogLevel = 2
	BUFFER_INTERNAL_STATE LogLevel = 4
	DEBUGGING             LogLevel = 8
	INFO                  LogLevel = 16
	WARN                  LogLevel = 32
	ERROR                 LogLevel = 64
	FATAL                 LogLevel = 128
)

var LogLevelSetting LogLevel = ActiveLogKindSetting

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&LogLevelSetting == 0 {
		return
	}

	msg := fmt.Sprintf(fmtStl, a...)
	switch {
	case logLevel >= ERROR:
		glog.ErrorDepth(1, msg)
	case logLevel == WARN:
		glog.WarningDepth(1, msg)
	default:
		glog.InfoDepth(1, msg)
	}
}
