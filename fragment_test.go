/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"strings"
	"testing"

	"github.com/btnmasher/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func privMsgCmd(t *testing.T, text string) Command {
	t.Helper()
	recipients := []Recipient{{Kind: RecipientAll}}
	cmd, err := NewPrivMsg(recipients, text)
	require.NoError(t, err)
	return cmd
}

// S2 Multipart split.
func TestFragmenterSplitsAt512(t *testing.T) {
	payload := strings.Repeat("A", 1024)
	f := NewFragmenter(DefaultFragmentChunkSize)

	msgs := f.Split(payload, privMsgCmd(t, ""))
	require.Len(t, msgs, 2)

	meta1, err := decodeMetadataTag(firstTag(t, msgs[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 1, meta1.PartNumber)
	assert.EqualValues(t, 2, meta1.TotalParts)
	assert.Len(t, msgs[0].Trailing, 512)

	meta2, err := decodeMetadataTag(firstTag(t, msgs[1]))
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta2.PartNumber)
	assert.EqualValues(t, 2, meta2.TotalParts)
	assert.Len(t, msgs[1].Trailing, 512)
}

func firstTag(t *testing.T, msg *Message) string {
	t.Helper()
	v, ok := msg.Tags.Get(MetadataTagKey)
	require.True(t, ok)
	return v
}

// Property 4: fragmenter totality.
func TestFragmenterTotality(t *testing.T) {
	payload := strings.Repeat("xyz", 777)
	f := NewFragmenter(DefaultFragmentChunkSize)

	msgs := f.Split(payload, privMsgCmd(t, ""))

	var rebuilt strings.Builder
	for _, msg := range msgs {
		rebuilt.WriteString(msg.Trailing)
	}

	assert.Equal(t, payload, rebuilt.String())
}

// Property 4, generalized: fragmenter totality over randomly generated
// payloads of varying length, rather than one fixed fixture.
func TestFragmenterTotalityRandomPayloads(t *testing.T) {
	f := NewFragmenter(DefaultFragmentChunkSize)

	for i := 0; i < 20; i++ {
		var payload strings.Builder
		for c := 0; c <= i%5; c++ {
			payload.WriteString(random.String(97))
		}

		msgs := f.Split(payload.String(), privMsgCmd(t, ""))

		var rebuilt strings.Builder
		for _, msg := range msgs {
			rebuilt.WriteString(msg.Trailing)
		}
		assert.Equal(t, payload.String(), rebuilt.String())
	}
}

func TestFragmenterEmptyPayload(t *testing.T) {
	f := NewFragmenter(DefaultFragmentChunkSize)

	msgs := f.Split("", privMsgCmd(t, ""))
	require.Len(t, msgs, 1)

	meta, err := decodeMetadataTag(firstTag(t, msgs[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 1, meta.PartNumber)
	assert.EqualValues(t, 1, meta.TotalParts)
	assert.Empty(t, msgs[0].Trailing)
}

func TestMetadataTagRoundTrip(t *testing.T) {
	meta := MultipartMetadata{GroupID: "g1", Timestamp: 1234, PartNumber: 3, TotalParts: 9}
	encoded := encodeMetadataTag(meta)

	decoded, err := decodeMetadataTag(encoded)
	require.NoError(t, err)
	assert.Equal(t, meta.GroupID, decoded.GroupID)
	assert.Equal(t, meta.Timestamp, decoded.Timestamp)
	assert.Equal(t, meta.PartNumber, decoded.PartNumber)
	assert.Equal(t, meta.TotalParts, decoded.TotalParts)
}

func TestDCCFrameRoundTrip(t *testing.T) {
	body := []byte{1, 2, 3, 4, 5}
	encoded := encodeDCCFrame(DCCFrame{Kind: DCCChatFrame, Body: body})

	decoded, consumed, err := decodeDCCFrame(encoded)
	require.NoError(t, err)
	assert.Equal(t, DCCChatFrame, decoded.Kind)
	assert.Equal(t, body, decoded.Body)
	assert.Equal(t, len(encoded), consumed)
}
