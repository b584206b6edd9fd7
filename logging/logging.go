// Package logging builds the logrus logger shared by the client and server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bulletblaster/config"
)

// New creates a logger from cfg. Unknown levels are an error; an empty level
// means info.
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		logger.Out = os.Stdout
	case "discard":
		logger.Out = io.Discard
	default:
		logger.Out = os.Stderr
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrap(err, "parsing log level")
		}
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}
