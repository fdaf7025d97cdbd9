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

func TestChunkJoinNicks(t *testing.T) {
	nicks := make([]Nickname, 0, 5)
	for _, raw := range []string{"alice", "bob", "carol", "dave", "erin"} {
		n, err := ParseNickname(raw, NickRules{})
		require.NoError(t, err)
		nicks = append(nicks, n)
	}

	chunks := ChunkJoinNicks(12, nicks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 12)
	}

	var rebuilt []string
	for _, c := range chunks {
		rebuilt = append(rebuilt, c)
	}
	assert.NotEmpty(t, rebuilt)
}

func TestMessageScrubRecyclesTags(t *testing.T) {
	msg, err := Parse("@id=1 PING server1")
	require.NoError(t, err)
	require.NotNil(t, msg.Tags)

	msg.Scrub()
	assert.Nil(t, msg.Tags)
}
