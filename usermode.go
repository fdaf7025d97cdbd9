/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// UserModeSet is a bitset over the RFC user-mode letters, per spec §3
// "User-mode flags". It requires at least 32 bits because of the
// extended letter set, so it is backed by a uint32 rather than the
// teacher's uint64 UModeAway-style constants — this set carries no
// setter/target permission semantics, since the engine's core is a
// pure value type with no session state (spec §4.6).
type UserModeSet uint32

// User-mode bit positions, in the fixed canonical order spec §3/§9
// assigns them: ascending bit position equals declaration order.
const (
	UModeInvisible UserModeSet = 1 << iota
	UModeWallops
	UModeOperator
	UModeLocalOperator
	UModeRestricted
	UModeAway
	UModeServerNotice
	UModeGlobalOps
	UModeQuiet
	UModeRegisteredOnly
	UModeZipped
	UModeExternal
	UModeDeaf
	UModeHidden
	UModeIRCOp
	UModeLowercase
	UModeLocked
	UModeMetadata
	UModeMuted
	UModeTLSOnly
	UModeTagged
	UModeUnrestricted
	UModeVoiceAll
	UModeWebIRC
	UModeA
	UModeB
	UModeC
	UModeD
	UModeE
	UModeF
	UModeG
	UModeH
)

// userModeLetters maps each bit, in ascending bit-position order, to
// its canonical RFC letter: i w o O r a s g Q R Z x d h I l L M m t T
// u v W A B C D E F G H.
var userModeLetters = []struct {
	bit    UserModeSet
	letter byte
}{
	{UModeInvisible, 'i'},
	{UModeWallops, 'w'},
	{UModeOperator, 'o'},
	{UModeLocalOperator, 'O'},
	{UModeRestricted, 'r'},
	{UModeAway, 'a'},
	{UModeServerNotice, 's'},
	{UModeGlobalOps, 'g'},
	{UModeQuiet, 'Q'},
	{UModeRegisteredOnly, 'R'},
	{UModeZipped, 'Z'},
	{UModeExternal, 'x'},
	{UModeDeaf, 'd'},
	{UModeHidden, 'h'},
	{UModeIRCOp, 'I'},
	{UModeLowercase, 'l'},
	{UModeLocked, 'L'},
	{UModeMetadata, 'M'},
	{UModeMuted, 'm'},
	{UModeTLSOnly, 't'},
	{UModeTagged, 'T'},
	{UModeUnrestricted, 'u'},
	{UModeVoiceAll, 'v'},
	{UModeWebIRC, 'W'},
	{UModeA, 'A'},
	{UModeB, 'B'},
	{UModeC, 'C'},
	{UModeD, 'D'},
	{UModeE, 'E'},
	{UModeF, 'F'},
	{UModeG, 'G'},
	{UModeH, 'H'},
}

// ParseUserModeLetters decodes a concatenated mode-letter string (e.g.
// "iwo") into a UserModeSet. Unknown letters return ErrUnknownMode.
func ParseUserModeLetters(letters string) (UserModeSet, error) {
	var set UserModeSet
	for i := 0; i < len(letters); i++ {
		bit, ok := userModeBitForLetter(letters[i])
		if !ok {
			return 0, ErrUnknownMode
		}
		set |= bit
	}
	return set, nil
}

func userModeBitForLetter(letter byte) (UserModeSet, bool) {
	for _, entry := range userModeLetters {
		if entry.letter == letter {
			return entry.bit, true
		}
	}
	return 0, false
}

// String encodes the set as a concatenation of its letters in
// canonical (ascending bit-position) order.
func (set UserModeSet) String() string {
	var b strings.Builder
	for _, entry := range userModeLetters {
		if set&entry.bit != 0 {
			b.WriteByte(entry.letter)
		}
	}
	return b.String()
}

// Has reports whether every bit in mask is set.
func (set UserModeSet) Has(mask UserModeSet) bool { return set&mask == mask }

// Set returns a new set with mask's bits added.
func (set UserModeSet) Set(mask UserModeSet) UserModeSet { return set | mask }

// Clear returns a new set with mask's bits removed.
func (set UserModeSet) Clear(mask UserModeSet) UserModeSet { return set &^ mask }
