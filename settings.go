/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"fmt"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/btnmasher/util"
	"github.com/sirupsen/logrus"
)

// Limiter Constants
const (
	// Messages
	MaxMsgLength  int = 512
	MaxMsgParams      = 15
	MaxTagsLength int = 4096

	// Channels
	MaxChanLength = 50
	MinChanLength = 2

	// Nicknames
	MaxNickLength = 1024
	MinNickLength = 2

	// Multipart
	DefaultFragmentChunkSize = 512
	DefaultMaxGroups         = 1024
	DefaultMaxBytesPerGroup  = 1 << 20 // 1 MiB
	DefaultGroupTTL          = 2 * time.Minute
)

// NickRules controls optional restrictions on nickname validation
// beyond the base RFC 2812 grammar.
type NickRules struct {
	RejectUnderscore bool
}

// ReassemblerBounds bounds the Reassembler's resource usage, per
// spec.md §4.5/§6. ChunkSize is the configured fragment chunk size: a
// fragment arriving larger than this is rejected as PayloadTooLarge
// per spec §7, since no Fragmenter in this process would ever have
// produced one.
type ReassemblerBounds struct {
	MaxGroups        int
	MaxBytesPerGroup int
	GroupTTL         time.Duration
	ChunkSize        int
}

// Config is the engine's configuration surface: {nick_name_rules,
// fragment_chunk_size, max_groups, max_bytes_per_group, group_ttl}.
// There is no CLI, environment variable, or persistent-store binding;
// callers build it with functional options.
type Config struct {
	nickRules   NickRules
	chunkSize   int
	reassembler ReassemblerBounds

	logger *logrus.Logger

	support *util.ConcurrentMapString
}

// Option configures a Config.
type Option func(*Config)

// WithNickRules sets the nickname validation rules.
func WithNickRules(rules NickRules) Option {
	return func(c *Config) { c.nickRules = rules }
}

// WithFragmentChunkSize overrides the default 512-byte fragment chunk
// size. Values above MaxMsgLength are replaced by the default at
// Fragmenter construction time, not here.
func WithFragmentChunkSize(size int) Option {
	return func(c *Config) { c.chunkSize = size }
}

// WithReassemblerBounds overrides the default reassembly resource
// bounds.
func WithReassemblerBounds(bounds ReassemblerBounds) Option {
	return func(c *Config) { c.reassembler = bounds }
}

// WithLogger installs a logrus logger used by stateful components
// (the frame decoder's non-fatal drop path, the Reassembler's
// eviction sweep). If never set, a logger with output discarded is
// used so the engine is silent by default.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithLogLevel sets the level on the configured logger.
func WithLogLevel(level logrus.Level) Option {
	return func(c *Config) {
		if c.logger != nil {
			c.logger.SetLevel(level)
		}
	}
}

// WithDefaultLogFormatter installs the nested-logrus-formatter with
// this engine's conventional field ordering on the configured logger.
func WithDefaultLogFormatter() Option {
	return func(c *Config) {
		if c.logger == nil {
			return
		}
		c.logger.SetFormatter(&nested.Formatter{
			FieldsOrder:     []string{"component", "group_id", "kind"},
			TimestampFormat: time.StampMilli,
		})
	}
}

// NewConfig builds a Config from the given options, applying the
// documented defaults for anything not explicitly set.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		chunkSize: DefaultFragmentChunkSize,
		reassembler: ReassemblerBounds{
			MaxGroups:        DefaultMaxGroups,
			MaxBytesPerGroup: DefaultMaxBytesPerGroup,
			GroupTTL:         DefaultGroupTTL,
			ChunkSize:        DefaultFragmentChunkSize,
		},
		support: util.NewConcurrentMapString(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// The reassembler's per-fragment size bound always tracks the
	// configured chunk size, even if WithReassemblerBounds ran before
	// WithFragmentChunkSize.
	c.reassembler.ChunkSize = c.chunkSize

	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetOutput(discardWriter{})
	}

	c.setSupportTokens()

	return c
}

func (c *Config) setSupportTokens() {
	c.support.Add("chunklen", fmt.Sprint(c.chunkSize))
	c.support.Add("maxgroups", fmt.Sprint(c.reassembler.MaxGroups))
	c.support.Add("maxbytespergroup", fmt.Sprint(c.reassembler.MaxBytesPerGroup))
	c.support.Add("casemapping", "ascii")
	c.support.Add("chanlen", fmt.Sprint(MaxChanLength))
	c.support.Add("nicklen", fmt.Sprint(MaxNickLength))
	c.support.Add("maxpara", fmt.Sprint(MaxMsgParams))
}

// SupportTokens returns a slice of formatted ISUPPORT-style
// "KEY=value" tokens advertising the engine's configured limits, for
// an embedding transport that wants to surface them upstream.
func (c *Config) SupportTokens() []string {
	tokens := make([]string, 0, c.support.Length())
	c.support.ForEach(func(key, value string) {
		if value == "" {
			tokens = append(tokens, key)
			return
		}
		tokens = append(tokens, key+"="+value)
	})
	return tokens
}

func (c *Config) logf() *logrus.Logger { return c.logger }

// discardWriter is a zero-allocation io.Writer that drops everything
// written to it, used as the default logger sink.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
