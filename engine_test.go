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

func TestEngineRoundTripThroughFramesAndFragments(t *testing.T) {
	e := NewEngine(WithFragmentChunkSize(8))
	defer e.Close()
	e.Warmup(4)

	recipients := []Recipient{{Kind: RecipientAll}}
	cmd, err := NewPrivMsg(recipients, "")
	require.NoError(t, err)

	emitted := e.Emit(cmd, "hello world!", nil)
	assert.NotEmpty(t, emitted)

	var joined string
	buf := emitted
	for len(buf) > 0 {
		msg, frame, consumed, err := e.DecodeNext(buf)
		require.NoError(t, err)
		require.Equal(t, FrameText, frame.Kind)
		require.Positive(t, consumed)
		buf = buf[consumed:]

		require.NotNil(t, msg)
		result, complete, err := e.Ingest(msg)
		require.NoError(t, err)
		if complete {
			joined = result.Text
		}
	}

	assert.Equal(t, "hello world!", joined)
}

func TestEngineSupportTokens(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	tokens := e.Config().SupportTokens()
	assert.NotEmpty(t, tokens)
}
