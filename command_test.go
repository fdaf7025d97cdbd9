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

func TestCapRoundTrip(t *testing.T) {
	parser := NewParser(NickRules{})

	msg, err := Parse("CAP REQ :sasl multi-prefix")
	require.NoError(t, err)

	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	assert.Equal(t, KindCap, cmd.Kind)
	assert.Equal(t, CapReq, cmd.CapSub)
	assert.Equal(t, []string{"sasl", "multi-prefix"}, cmd.CapIDs)

	encoded := Encode(cmd)
	assert.Equal(t, "CAP REQ :sasl multi-prefix", encoded.Render())
}

func TestCapabilityBitset(t *testing.T) {
	bit, ok := CapNameToBit("sasl")
	require.True(t, ok)
	assert.Equal(t, CapSASL, bit)

	set := CapSASL | CapServerTime
	assert.Equal(t, "sasl server-time", set.String())
}

func TestSplitOtherArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitOtherArgs("a,b,c"))
}

func TestKickArityValidation(t *testing.T) {
	alice, err := ParseNickname("alice", NickRules{})
	require.NoError(t, err)
	bob, err := ParseNickname("bob", NickRules{})
	require.NoError(t, err)
	chanA, err := ParseChannelName("#a")
	require.NoError(t, err)
	chanB, err := ParseChannelName("#bb")
	require.NoError(t, err)

	// len(channels)==1 is always valid regardless of len(users).
	_, err = NewKick([]ChannelName{chanB}, []Nickname{alice, bob}, nil)
	assert.NoError(t, err)

	// Mismatched lengths >1 are rejected.
	_, err = NewKick([]ChannelName{chanA, chanB, chanA}, []Nickname{alice, bob}, nil)
	assert.Error(t, err)
}

func TestDCCSendEncode(t *testing.T) {
	cmd := NewDCCSend("alice", "photo.png", 4096, "10.0.0.1", 5000)
	msg := Encode(cmd)
	assert.Equal(t, CmdDCCSend, msg.Raw)
	assert.Contains(t, msg.Trailing, "photo.png")
	assert.Contains(t, msg.Trailing, "10.0.0.1")
}
