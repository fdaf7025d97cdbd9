/*
   Copyright (c) 2020, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package ircwire

import "fmt"

// ErrorKind categorizes an engine error so callers can switch on
// category instead of matching strings.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindInvalidChannelName
	KindInvalidNickName
	KindInvalidUserID
	KindInvalidMode
	KindInvalidTag
	KindBadArgumentCount
	KindParseFailure
	KindFrameNeedsMoreData
	KindPayloadTooLarge
	KindAcknowledgmentCorrupted
	KindMediaCache
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidChannelName:
		return "invalid channel name"
	case KindInvalidNickName:
		return "invalid nickname"
	case KindInvalidUserID:
		return "invalid user identifier"
	case KindInvalidMode:
		return "invalid mode"
	case KindInvalidTag:
		return "invalid tag"
	case KindBadArgumentCount:
		return "bad argument count"
	case KindParseFailure:
		return "parse failure"
	case KindFrameNeedsMoreData:
		return "frame needs more data"
	case KindPayloadTooLarge:
		return "payload too large"
	case KindAcknowledgmentCorrupted:
		return "acknowledgment corrupted"
	case KindMediaCache:
		return "media cache error"
	default:
		return "no error"
	}
}

// Error is an immutable error string, satisfying both error and
// fmt.Stringer, used for error kinds that carry no additional data.
type Error string

func (err Error) Error() string { return string(err) }
func (err Error) String() string { return string(err) }

// Immutable error constants that carry no data; Error.Kind maps each
// to its ErrorKind.
const (
	ErrInvalidChannelName Error = "invalid channel name"
	ErrInvalidNickName    Error = "invalid nickname"
	ErrInvalidUserID      Error = "invalid user identifier"
	ErrInvalidMode        Error = "invalid mode"
	ErrInvalidTag         Error = "invalid tag"
	ErrFrameNeedsMoreData Error = "frame needs more data"
	ErrUnknownMode        Error = "unknown mode"
	ErrUnknownCapSub      Error = "unknown CAP subcommand"
	ErrEmptyLine          Error = "all whitespace"
)

// BadArgumentCountError reports wrong arity for a recognized command.
type BadArgumentCountError struct {
	Command string
	Got     int
	Want    string
}

func (e *BadArgumentCountError) Error() string {
	return fmt.Sprintf("bad argument count for %s: got %d, want %s", e.Command, e.Got, e.Want)
}

func (e *BadArgumentCountError) Kind() ErrorKind { return KindBadArgumentCount }

// ParseFailureError is a general text-line parse error carrying a reason.
type ParseFailureError struct {
	Reason string
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("parse failure: %s", e.Reason)
}

func (e *ParseFailureError) Kind() ErrorKind { return KindParseFailure }

// PayloadTooLargeError reports a single fragment exceeding the
// configured chunk size.
type PayloadTooLargeError struct {
	Size, Max int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d bytes exceeds chunk size %d", e.Size, e.Max)
}

func (e *PayloadTooLargeError) Kind() ErrorKind { return KindPayloadTooLarge }

// AcknowledgmentCorruptedError reports a malformed multipart tag or a
// duplicate part number within a reassembly group.
type AcknowledgmentCorruptedError struct {
	GroupID string
	Reason  string
}

func (e *AcknowledgmentCorruptedError) Error() string {
	return fmt.Sprintf("acknowledgment corrupted for group %s: %s", e.GroupID, e.Reason)
}

func (e *AcknowledgmentCorruptedError) Kind() ErrorKind { return KindAcknowledgmentCorrupted }

// MediaCacheError reports reassembler eviction due to resource bounds.
type MediaCacheError struct {
	GroupID string
	Reason  string
}

func (e *MediaCacheError) Error() string {
	return fmt.Sprintf("media cache error for group %s: %s", e.GroupID, e.Reason)
}

func (e *MediaCacheError) Kind() ErrorKind { return KindMediaCache }

// Kinder is implemented by every error type defined in this package so
// callers can recover the ErrorKind without type assertions on each
// concrete type.
type Kinder interface {
	Kind() ErrorKind
}

func (err Error) Kind() ErrorKind {
	switch err {
	case ErrInvalidChannelName:
		return KindInvalidChannelName
	case ErrInvalidNickName:
		return KindInvalidNickName
	case ErrInvalidUserID:
		return KindInvalidUserID
	case ErrInvalidMode, ErrUnknownMode:
		return KindInvalidMode
	case ErrInvalidTag:
		return KindInvalidTag
	case ErrFrameNeedsMoreData:
		return KindFrameNeedsMoreData
	default:
		return KindNone
	}
}
