package config

import (
	"fmt"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spacemeshos/smutil"

	"github.com/spacemeshos/bitqueue/bitcopy"
)

const (
	MinBufferSize = 1
	MaxBufferSize = 1 << 30
)

const (
	DefaultDataDirName = "data"

	// 64KB ring. Temporary value.
	DefaultBufferSize = 1 << 16

	// Deliberately byte-misaligned, to exercise bit-granular transfers.
	DefaultChunkBits = 13
)

var (
	DefaultDataDir = filepath.Join(smutil.GetUserHomeDirectory(), "bitqueue", DefaultDataDirName)
)

type Config struct {
	DataDir string `mapstructure:"bitq-datadir"`

	// Queue params.
	BufferSize uint `mapstructure:"bitq-buffersize"`
	ChunkBits  uint `mapstructure:"bitq-chunkbits"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		BufferSize: DefaultBufferSize,
		ChunkBits:  DefaultChunkBits,
	}
}

func (cfg *Config) Validate() error {
	if cfg.BufferSize < MinBufferSize {
		return fmt.Errorf("invalid `BufferSize`; expected: >= %d, given: %d", MinBufferSize, cfg.BufferSize)
	}

	if cfg.BufferSize > MaxBufferSize {
		return fmt.Errorf("invalid `BufferSize`; expected: <= %v, given: %v",
			bytefmt.ByteSize(MaxBufferSize), bytefmt.ByteSize(uint64(cfg.BufferSize)))
	}

	if cfg.ChunkBits == 0 {
		return fmt.Errorf("invalid `ChunkBits`; expected: > 0, given: %d", cfg.ChunkBits)
	}

	if cfg.ChunkBits > cfg.BufferSize*bitcopy.BitsPerByte {
		return fmt.Errorf("invalid `ChunkBits`; expected: <= `BufferSize`*8 (%d), given: %d",
			cfg.BufferSize*bitcopy.BitsPerByte, cfg.ChunkBits)
	}

	return nil
}
