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

func TestParseNickname(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		rules   NickRules
		wantErr bool
	}{
		{"plain", "alice", NickRules{}, false},
		{"special start", "[alice]", NickRules{}, false},
		{"digit start invalid", "1alice", NickRules{}, true},
		{"too short", "a", NickRules{}, true},
		{"underscore rejected", "al_ice", NickRules{RejectUnderscore: true}, true},
		{"underscore allowed", "al_ice", NickRules{}, false},
		{"space invalid", "al ice", NickRules{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseNickname(tc.raw, tc.rules)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNickFoldingAndEquality(t *testing.T) {
	n1, err := ParseNickname("ALICE[1]", NickRules{})
	require.NoError(t, err)

	assert.Equal(t, "alice{1}", n1.Folded())

	n2, err := ParseNickname("alice{1}", NickRules{})
	require.NoError(t, err)

	assert.True(t, n1.Equal(n2))
	assert.Equal(t, "ALICE[1]", n1.String())
}

func TestChannelValidation(t *testing.T) {
	_, err := ParseChannelName("#a")
	assert.Error(t, err, "too short")

	_, err = ParseChannelName("##foo,bar")
	assert.Error(t, err, "contains comma")

	ch, err := ParseChannelName("#general")
	require.NoError(t, err)
	assert.Equal(t, "#general", ch.String())
}

func TestUserIDParsing(t *testing.T) {
	id, err := ParseUserID("alice!alice@localhost")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Nick)
	assert.Equal(t, "alice", id.User)
	assert.Equal(t, "localhost", id.Host)
	assert.Equal(t, "alice!alice@localhost", id.String())

	id2, err := ParseUserID("irc.example.net")
	require.NoError(t, err)
	assert.Equal(t, "irc.example.net", id2.Nick)
	assert.Empty(t, id2.User)
	assert.Empty(t, id2.Host)
}

func TestUserModeSetEncoding(t *testing.T) {
	set, err := ParseUserModeLetters("iwo")
	require.NoError(t, err)
	assert.True(t, set.Has(UModeInvisible))
	assert.True(t, set.Has(UModeWallops))
	assert.True(t, set.Has(UModeOperator))
	assert.Equal(t, "iwo", set.String())

	_, err = ParseUserModeLetters("z")
	assert.Error(t, err)
}

func TestChannelModeSetEncoding(t *testing.T) {
	set, err := ParseChannelModeLetters("ntm")
	require.NoError(t, err)
	assert.Equal(t, "tnm", set.String())
	assert.True(t, ModeTakesParameter('l'))
	assert.False(t, ModeTakesParameter('n'))
}
