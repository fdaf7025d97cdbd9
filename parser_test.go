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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagsSourceCommand(t *testing.T) {
	msg, err := Parse("@id=123;time= :alice!alice@localhost PRIVMSG #general :Hello, world!")
	require.NoError(t, err)

	require.NotNil(t, msg.Tags)
	v, ok := msg.Tags.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "123", v)

	require.NotNil(t, msg.Source)
	assert.Equal(t, "alice", msg.Source.Nick)
	assert.Equal(t, "localhost", msg.Source.Host)

	assert.Equal(t, CmdPrivMsg, msg.Raw)
	assert.Equal(t, []string{"#general"}, msg.Params)
	assert.Equal(t, "Hello, world!", msg.Trailing)
	assert.True(t, msg.HasTrailing)
}

func TestParseEmptyLine(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmptyLine)
}

func TestParseTooManyParams(t *testing.T) {
	fields := make([]string, 20)
	for i := range fields {
		fields[i] = "x"
	}
	// The 15th parameter starts the trailing, so the excess tokens fold
	// into it rather than failing the parse.
	msg, err := Parse("CMD " + strings.Join(fields, " "))
	require.NoError(t, err)
	assert.Len(t, msg.Params, MaxMsgParams-1)
	assert.True(t, msg.HasTrailing)
	assert.Equal(t, "x x x x x x", msg.Trailing)
}

// S1 PRIVMSG round-trip, per spec §8.
func TestPrivMsgRoundTrip(t *testing.T) {
	line := ":alice!alice@localhost PRIVMSG #general :Hello, world!"

	msg, err := Parse(line)
	require.NoError(t, err)

	parser := NewParser(NickRules{})
	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	require.Equal(t, KindPrivMsg, cmd.Kind)
	assert.Equal(t, "Hello, world!", cmd.Text)

	encoded := Encode(cmd)
	encoded.Source = msg.Source
	assert.Equal(t, line, encoded.Render())
}

func TestNickUserJoinPartRoundTrip(t *testing.T) {
	parser := NewParser(NickRules{})

	cases := []string{
		"NICK alice",
		"USER alice 0 * :Alice Liddell",
		"JOIN #general,#other",
		"JOIN 0",
		"PART #general",
		"QUIT :goodbye",
		"PING server1",
		"PING server1 server2",
	}

	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			msg, err := Parse(line)
			require.NoError(t, err)

			cmd, err := parser.Dispatch(msg)
			require.NoError(t, err)

			encoded := Encode(cmd)
			assert.Equal(t, line, encoded.Render())
		})
	}
}

func TestModeRoundTrip(t *testing.T) {
	parser := NewParser(NickRules{})

	msg, err := Parse("MODE alice +iw")
	require.NoError(t, err)

	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	assert.Equal(t, KindMode, cmd.Kind)
	assert.True(t, cmd.ModeAdd.Has(UModeInvisible))
	assert.True(t, cmd.ModeAdd.Has(UModeWallops))

	encoded := Encode(cmd)
	assert.Equal(t, "MODE alice +iw", encoded.Render())
}

func TestChannelModeWithParams(t *testing.T) {
	parser := NewParser(NickRules{})

	msg, err := Parse("MODE #general +ol alice 10")
	require.NoError(t, err)

	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	assert.Equal(t, KindChannelMode, cmd.Kind)
	assert.Equal(t, []string{"alice", "10"}, cmd.ChanModeAddParams)

	encoded := Encode(cmd)
	assert.Equal(t, "MODE #general +ol alice 10", encoded.Render())
}

func TestNumericDispatch(t *testing.T) {
	msg, err := Parse(":irc.example.net 001 alice :Welcome to the network")
	require.NoError(t, err)

	parser := NewParser(NickRules{})
	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, cmd.Kind)
	assert.EqualValues(t, ReplyWelcome, cmd.Code)
}

func TestUnknownNumericBecomesOther(t *testing.T) {
	msg, err := Parse("999 alice :mystery")
	require.NoError(t, err)

	parser := NewParser(NickRules{})
	cmd, err := parser.Dispatch(msg)
	require.NoError(t, err)
	assert.Equal(t, KindOtherNumeric, cmd.Kind)
	assert.EqualValues(t, 999, cmd.Code)
}

func TestBadArgumentCount(t *testing.T) {
	msg, err := Parse("NICK")
	require.NoError(t, err)

	parser := NewParser(NickRules{})
	_, err = parser.Dispatch(msg)
	require.Error(t, err)

	var badArgs *BadArgumentCountError
	assert.ErrorAs(t, err, &badArgs)
}

// Property 2: line safety — encoder output never contains \n, \r, NUL.
func TestEncoderLineSafety(t *testing.T) {
	cmd, err := NewPrivMsg([]Recipient{{Kind: RecipientAll}}, "hello there")
	require.NoError(t, err)

	out := Encode(cmd).Render()
	assert.NotContains(t, out, "\n")
	assert.NotContains(t, out, "\r")
	assert.NotContains(t, out, "\x00")
}

// Property 3: trailing rule.
func TestTrailingColonRule(t *testing.T) {
	assert.True(t, needsTrailingColon("has space"))
	assert.True(t, needsTrailingColon(":startswithcolon"))
	assert.True(t, needsTrailingColon(""))
	assert.False(t, needsTrailingColon("noSpaces"))
}
