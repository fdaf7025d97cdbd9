/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"encoding/base64"
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// MultipartMetadata is the canonical fragment-metadata shape named in
// spec §9's Design Notes: (group_id, timestamp, part_number,
// total_parts), carried in the reserved `packetMetadata` tag. Payload
// and Binary are mutually exclusive per §9's open question on
// `MultipartPacket.message` vs `data` — the Fragmenter only ever
// populates Payload; Binary is reserved for a DCC-carrying caller.
type MultipartMetadata struct {
	GroupID    string
	Timestamp  int64
	PartNumber uint32
	TotalParts uint32
	Payload    string
	Binary     []byte
}

// encodeMetadataTag encodes (group_id, timestamp, part_number,
// total_parts) as a fixed big-endian binary layout, base64-armored
// (RawURLEncoding, since tag values are carried verbatim and must not
// contain ';', ' ', or NUL), per SPEC_FULL.md's non-goal satisfying a
// "stable binary encoding" without mandating a serialization library.
func encodeMetadataTag(m MultipartMetadata) string {
	buf := make([]byte, 2+len(m.GroupID)+8+4+4)
	off := 0
	binary.BigEndian.PutUint16(buf[off:], uint16(len(m.GroupID)))
	off += 2
	copy(buf[off:], m.GroupID)
	off += len(m.GroupID)
	binary.BigEndian.PutUint64(buf[off:], uint64(m.Timestamp))
	off += 8
	binary.BigEndian.PutUint32(buf[off:], m.PartNumber)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], m.TotalParts)

	return base64.RawURLEncoding.EncodeToString(buf)
}

// decodeMetadataTag is the inverse of encodeMetadataTag.
func decodeMetadataTag(value string) (MultipartMetadata, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) < 2 {
		return MultipartMetadata{}, &AcknowledgmentCorruptedError{Reason: "malformed metadata tag"}
	}

	groupLen := int(binary.BigEndian.Uint16(raw[0:2]))
	want := 2 + groupLen + 8 + 4 + 4
	if len(raw) != want {
		return MultipartMetadata{}, &AcknowledgmentCorruptedError{Reason: "malformed metadata tag length"}
	}

	off := 2
	groupID := string(raw[off : off+groupLen])
	off += groupLen
	timestamp := int64(binary.BigEndian.Uint64(raw[off:]))
	off += 8
	partNumber := binary.BigEndian.Uint32(raw[off:])
	off += 4
	totalParts := binary.BigEndian.Uint32(raw[off:])

	return MultipartMetadata{
		GroupID:    groupID,
		Timestamp:  timestamp,
		PartNumber: partNumber,
		TotalParts: totalParts,
	}, nil
}

// Fragmenter deterministically splits oversized payloads into ordered
// fragments bearing a group id and part index, per spec §4.4 (C6).
type Fragmenter struct {
	chunkSize int
}

// NewFragmenter constructs a Fragmenter with the given chunk size.
// Values above MaxMsgLength are clamped to MaxMsgLength, since a
// chunk larger than a classical IRC line can never be carried intact.
func NewFragmenter(chunkSize int) *Fragmenter {
	if chunkSize <= 0 || chunkSize > MaxMsgLength {
		chunkSize = DefaultFragmentChunkSize
	}
	return &Fragmenter{chunkSize: chunkSize}
}

// Split slices payload into fragments belonging to cmd, returning one
// *Message per fragment with the `packetMetadata` tag set and the
// fragmentable slot of cmd replaced by the chunk. Fragments are
// yielded in ascending part_number, per §4.4's ordering guarantee and
// §8 property 4 (fragmenter totality).
//
// cmd's Kind must be one of the fragmentable kinds named in §4.4
// (PRIVMSG, NOTICE, QUIT, OTHER_COMMAND, OTHER_NUMERIC); for
// OTHER_COMMAND/OTHER_NUMERIC the caller is responsible for having
// already pre-joined the variable args with ',' before calling Split,
// per §9's preserved OTHER_COMMAND contract.
func (f *Fragmenter) Split(payload string, cmd Command) []*Message {
	chunks := chunkPayload(payload, f.chunkSize)
	groupID := uuid.New().String()
	timestamp := time.Now().UnixMilli()
	total := uint32(len(chunks))

	out := make([]*Message, len(chunks))
	for i, chunk := range chunks {
		meta := MultipartMetadata{
			GroupID:    groupID,
			Timestamp:  timestamp,
			PartNumber: uint32(i + 1),
			TotalParts: total,
		}

		fragCmd := cmd.withFragmentPayload(chunk)
		msg := Encode(fragCmd)
		msg.Tags = tagPool.New()
		msg.Tags.Set(MetadataTagKey, encodeMetadataTag(meta))
		out[i] = msg
	}

	return out
}

// chunkPayload slices payload into byte-oriented chunks of at most
// size bytes. An empty payload yields exactly one empty chunk, per
// §4.4's "if the payload is empty, emit one fragment with empty
// chunk, part_number=1, total_parts=1" and §9's chunk-count decision
// (actual fragments produced, not a precomputed ceil division).
func chunkPayload(payload string, size int) []string {
	if payload == "" {
		return []string{""}
	}

	var chunks []string
	for len(payload) > 0 {
		n := size
		if n > len(payload) {
			n = len(payload)
		}
		chunks = append(chunks, payload[:n])
		payload = payload[n:]
	}
	return chunks
}
