/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDecoderTextLine(t *testing.T) {
	d := NewFrameDecoder(nil)

	buf := []byte("PING server1\r\nPONG server1\r\n")
	frame, consumed, err := d.Next(buf)
	require.NoError(t, err)
	assert.Equal(t, FrameText, frame.Kind)
	assert.Equal(t, "PING server1", frame.Line)
	assert.Equal(t, 14, consumed)

	frame, consumed, err = d.Next(buf[consumed:])
	require.NoError(t, err)
	assert.Equal(t, "PONG server1", frame.Line)
	assert.Equal(t, 14, consumed)
}

func TestFrameDecoderNeedsMoreData(t *testing.T) {
	d := NewFrameDecoder(nil)

	_, consumed, err := d.Next([]byte("PING server1"))
	assert.ErrorIs(t, err, ErrFrameNeedsMoreData)
	assert.Zero(t, consumed)
}

func TestFrameDecoderCRLFOptionalCR(t *testing.T) {
	d := NewFrameDecoder(nil)

	frame, consumed, err := d.Next([]byte("PING server1\n"))
	require.NoError(t, err)
	assert.Equal(t, "PING server1", frame.Line)
	assert.Equal(t, 13, consumed)
}

// S5 DCC discrimination.
func TestFrameDecoderBinaryNeedsMoreData(t *testing.T) {
	d := NewFrameDecoder(nil)

	buf := []byte{0x02, 0x00, 0x00, 0x00, 0x10, 'a', 'b', 'c'}
	_, consumed, err := d.Next(buf)
	assert.ErrorIs(t, err, ErrFrameNeedsMoreData)
	assert.Zero(t, consumed)
}

func TestFrameDecoderBinaryComplete(t *testing.T) {
	d := NewFrameDecoder(nil)

	body := []byte("opaque-dcc-body")
	encoded := encodeDCCFrame(DCCFrame{Kind: DCCSendFrame, Body: body})

	frame, consumed, err := d.Next(encoded)
	require.NoError(t, err)
	assert.Equal(t, FrameBinary, frame.Kind)
	assert.Equal(t, DCCSendFrame, frame.DCC.Kind)
	assert.Equal(t, body, frame.DCC.Body)
	assert.Equal(t, len(encoded), consumed)
}

// Property 7: idempotence of frame decoding.
func TestFrameDecoderIdempotent(t *testing.T) {
	d := NewFrameDecoder(nil)

	buf := []byte("PING server1")
	_, c1, err1 := d.Next(buf)
	_, c2, err2 := d.Next(buf)

	assert.Equal(t, err1, err2)
	assert.Equal(t, c1, c2)
	assert.Zero(t, c1)
}

func TestFrameDecoderMalformedLineStillConsumed(t *testing.T) {
	d := NewFrameDecoder(nil)

	msg, _, consumed, err := d.NextMessage([]byte("@;bad tag PING\r\n"))
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Positive(t, consumed)
}
