package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the package logger for the given environment.
func Init(env string) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(env, "production") {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
		return
	}

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.DebugLevel)
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}

func Fatal(msg string, args ...any) {
	log.WithFields(fields(args)).Fatal(msg)
}

// fields turns "key", value pairs into logrus fields. A bare error is stored
// under the error key and a trailing unpaired string under "detail".
func fields(args []any) logrus.Fields {
	f := logrus.Fields{}

	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			f[logrus.ErrorKey] = v
		case string:
			if i+1 < len(args) {
				f[v] = args[i+1]
				i++
				continue
			}
			f["detail"] = v
		default:
			f[fmt.Sprintf("arg%d", i)] = v
		}
	}

	return f
}
