package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/config"
)

// Setup configures the standard logrus logger from cfg.
// When LOG_FILE is set, output is also written to a rotating file.
func Setup(cfg *config.Config) {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log.SetOutput(out)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	log.SetLevel(level)
}
