/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// ChannelModeSet is a bitset over the channel permission-flag letters,
// per spec §3 "Channel permission flags".
type ChannelModeSet uint16

// Channel-mode bit positions, in the fixed canonical order
// `O o p s i t n m l b v k`.
const (
	CModeCreator ChannelModeSet = 1 << iota
	CModeOperator
	CModePrivate
	CModeSecret
	CModeInviteOnly
	CModeTopicLocked
	CModeNoExternalMsg
	CModeModerated
	CModeLimit
	CModeBan
	CModeVoice
	CModeKey
)

var channelModeLetters = []struct {
	bit    ChannelModeSet
	letter byte
}{
	{CModeCreator, 'O'},
	{CModeOperator, 'o'},
	{CModePrivate, 'p'},
	{CModeSecret, 's'},
	{CModeInviteOnly, 'i'},
	{CModeTopicLocked, 't'},
	{CModeNoExternalMsg, 'n'},
	{CModeModerated, 'm'},
	{CModeLimit, 'l'},
	{CModeBan, 'b'},
	{CModeVoice, 'v'},
	{CModeKey, 'k'},
}

// ParseChannelModeLetters decodes a concatenated mode-letter string
// into a ChannelModeSet. Unknown letters return ErrUnknownMode.
func ParseChannelModeLetters(letters string) (ChannelModeSet, error) {
	var set ChannelModeSet
	for i := 0; i < len(letters); i++ {
		bit, ok := channelModeBitForLetter(letters[i])
		if !ok {
			return 0, ErrUnknownMode
		}
		set |= bit
	}
	return set, nil
}

func channelModeBitForLetter(letter byte) (ChannelModeSet, bool) {
	for _, entry := range channelModeLetters {
		if entry.letter == letter {
			return entry.bit, true
		}
	}
	return 0, false
}

// String encodes the set as a concatenation of its letters in
// canonical (ascending bit-position) order.
func (set ChannelModeSet) String() string {
	var b strings.Builder
	for _, entry := range channelModeLetters {
		if set&entry.bit != 0 {
			b.WriteByte(entry.letter)
		}
	}
	return b.String()
}

// Has reports whether every bit in mask is set.
func (set ChannelModeSet) Has(mask ChannelModeSet) bool { return set&mask == mask }

// ModeTakesParameter reports whether the given channel mode letter
// carries an associated parameter (a limit, a key, a ban mask, or a
// nick) when set or unset, per the ISUPPORT CHANMODES convention.
func ModeTakesParameter(letter byte) bool {
	switch letter {
	case 'l', 'b', 'v', 'o', 'O', 'k':
		return true
	default:
		return false
	}
}
