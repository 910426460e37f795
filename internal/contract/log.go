package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Everything goes to stderr so that
// stdout stays clean for rendered output.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// exit is swapped out in tests.
var exit = os.Exit

// SetLogLevel parses and applies a level such as "debug" or "warn".
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Error(msg)
	exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}

// LogInfo logs an informational message with optional fields.
func LogInfo(msg string, fields logrus.Fields) {
	Logger.WithFields(fields).Info(msg)
}
