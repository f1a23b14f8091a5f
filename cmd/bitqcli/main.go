package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitqueue/config"
)

var (
	cfg    = config.DefaultConfig()
	logger *zap.Logger

	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "bitqcli",
	Short: "bit queue demonstration harness",
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		if logger, err = newLogger(logLevel); err != nil {
			return err
		}
		return nil
	}

	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "path to a config file")
	flags.StringVar(&logLevel, "logLevel", "info", "log level (debug, info, warn, error)")

	// Queue config.
	flags.String("bitq-datadir", config.DefaultDataDir, "filesystem datadir path")
	flags.Uint("bitq-buffersize", config.DefaultBufferSize, "queue buffer size in bytes")
	flags.Uint("bitq-chunkbits", config.DefaultChunkBits, "bits moved per transfer")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(pipeCmd)
	rootCmd.AddCommand(benchCmd)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := zapCfg.Build()
	if err != nil {
		log.Fatalln("failed to initialize zap logger:", err)
	}
	return l, nil
}

// zapLog backs the library's printf-style logger with zap.
type zapLog struct {
	s *zap.SugaredLogger
}

func (l zapLog) Info(format string, args ...any)    { l.s.Infof(format, args...) }
func (l zapLog) Debug(format string, args ...any)   { l.s.Debugf(format, args...) }
func (l zapLog) Warning(format string, args ...any) { l.s.Warnf(format, args...) }
func (l zapLog) Error(format string, args ...any)   { l.s.Errorf(format, args...) }

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
