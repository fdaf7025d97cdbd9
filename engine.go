/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"github.com/btnmasher/ircwire/shared/itempool"
)

// MessagePoolMax bounds the warm Message pool, mirroring the
// teacher's MessagePoolMax.
const MessagePoolMax = 1000

// Engine is the facade wiring the whole pipeline described in spec
// §2: FrameDecoder -> Parser -> Reassembler on the inbound side,
// Fragmenter -> Encoder -> FrameDecoder's inverse on the outbound
// side. It owns no sockets; embedding a transport is the caller's
// job, per spec §1's ownership rule.
type Engine struct {
	config *Config

	Frames      *FrameDecoder
	Parser      *Parser
	Fragmenter  *Fragmenter
	Reassembler *Reassembler

	msgpool itempool.Pool[*Message]
}

// Warmup pre-populates the message pool, mirroring the teacher's
// Warmup(logger) package-level call, generalized into an Engine
// method since this engine carries no package-level mutable state.
func (e *Engine) Warmup(num int) {
	e.msgpool.Warmup(num)
}

// NewEngine builds an Engine from the given options, applying
// NewConfig's documented defaults for anything not explicitly set.
func NewEngine(opts ...Option) *Engine {
	config := NewConfig(opts...)

	e := &Engine{
		config:      config,
		Frames:      NewFrameDecoder(config.logf()),
		Parser:      NewParser(config.nickRules),
		Fragmenter:  NewFragmenter(config.chunkSize),
		Reassembler: NewReassembler(config.reassembler, config.logf()),
		msgpool: itempool.New[*Message](MessagePoolMax, func() *Message {
			return &Message{}
		}),
	}

	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config { return e.config }

// Close releases the Engine's background resources (the
// Reassembler's TTL sweep goroutine).
func (e *Engine) Close() {
	e.Reassembler.Close()
}

// DecodeNext pulls the next frame out of buf, returning the decoded
// Message (for text frames that parsed successfully), the raw Frame,
// the number of bytes consumed, and an error. See FrameDecoder.Next
// and FrameDecoder.NextMessage for the exact consumption rules.
func (e *Engine) DecodeNext(buf []byte) (*Message, Frame, int, error) {
	return e.Frames.NextMessage(buf)
}

// Ingest dispatches a decoded text Message into its typed Command and
// folds it through the Reassembler, returning the reassembled payload
// command when a group (or single-part passthrough) completes.
// Commands that carry no fragmentable payload (NICK, USER, ...) are
// returned as dispatched, with complete set to true.
//
// On completion, the returned Command has its fragmentable payload
// slot replaced by the full joined payload; callers of OTHER_COMMAND/
// OTHER_NUMERIC variants must still call SplitOtherArgs on it, per
// spec §9's preserved contract.
func (e *Engine) Ingest(msg *Message) (Command, bool, error) {
	cmd, err := e.Parser.Dispatch(msg)
	if err != nil {
		return Command{}, false, err
	}
	if _, ok := cmd.fragmentablePayload(); !ok {
		return cmd, true, nil
	}

	joined, complete, err := e.Reassembler.Process(msg, cmd)
	if err != nil {
		return Command{}, false, err
	}
	if !complete {
		return Command{}, false, nil
	}

	return cmd.withFragmentPayload(joined), true, nil
}

// Emit renders cmd to wire bytes with payload as its fragmentable
// slot. The payload always goes through Fragmenter.Split, so every
// line carries the packetMetadata tag, including a payload that fits
// in one chunk or is empty (one fragment, total_parts=1). source, if
// non-nil, is attached to every resulting line.
func (e *Engine) Emit(cmd Command, payload string, source *UserID) []byte {
	var out []byte

	fragments := e.Fragmenter.Split(payload, cmd)
	for _, msg := range fragments {
		msg.Source = source
		out = append(out, msg.Render()...)
		out = append(out, '\r', '\n')
	}

	return out
}
