/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// FrameKind discriminates a decoded Frame, per spec §4.3.
type FrameKind uint8

const (
	FrameText FrameKind = iota
	FrameBinary
)

// Frame is one wire unit produced by FrameDecoder.Next: either a
// complete text line (CR/LF already stripped) or a complete binary
// DCC frame body.
type Frame struct {
	Kind FrameKind
	Line string
	DCC  DCCFrame
}

// FrameDecoder splits an inbound byte stream into whole text lines or
// whole binary DCC frames, never consuming a partial frame, per spec
// §4.3/§8 property 7 (idempotence of frame decoding).
type FrameDecoder struct {
	logger *logrus.Logger
}

// NewFrameDecoder constructs a FrameDecoder. A nil logger installs a
// discard logger.
func NewFrameDecoder(logger *logrus.Logger) *FrameDecoder {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(discardWriter{})
	}
	return &FrameDecoder{logger: logger}
}

// Next inspects buf[0:] for one complete frame. It returns the frame,
// the number of bytes consumed from buf, and an error. On
// ErrFrameNeedsMoreData, consumed is always 0 and buf is unchanged by
// the caller's accounting. Parse failures within a text line are
// reported but the line is still consumed (consumed > 0), per spec
// §4.3's "do NOT leave the reader index mid-line" rule.
func (d *FrameDecoder) Next(buf []byte) (Frame, int, error) {
	if len(buf) == 0 {
		return Frame{}, 0, ErrFrameNeedsMoreData
	}

	if buf[0] <= 4 {
		dcc, consumed, err := decodeDCCFrame(buf)
		if err != nil {
			return Frame{}, 0, err
		}
		return Frame{Kind: FrameBinary, DCC: dcc}, consumed, nil
	}

	nl := bytes.IndexByte(buf, '\n')
	if nl < 0 {
		return Frame{}, 0, ErrFrameNeedsMoreData
	}

	end := nl
	if end > 0 && buf[end-1] == '\r' {
		end--
	}

	line := string(buf[:end])
	consumed := nl + 1

	return Frame{Kind: FrameText, Line: line}, consumed, nil
}

// NextMessage is a convenience wrapper combining Next, Parse, and a
// logged-and-dropped non-fatal failure path for malformed text lines,
// per spec §7's frame-decoder error propagation rule.
func (d *FrameDecoder) NextMessage(buf []byte) (*Message, Frame, int, error) {
	frame, consumed, err := d.Next(buf)
	if err != nil {
		return nil, Frame{}, consumed, err
	}
	if frame.Kind == FrameBinary {
		return nil, frame, consumed, nil
	}

	msg, err := Parse(frame.Line)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"component": "frame_decoder",
			"kind":      "parse_failure",
		}).Warn(err.Error())
		return nil, frame, consumed, nil
	}

	return msg, frame, consumed, nil
}
