/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "encoding/binary"

// DCCKind discriminates the binary DCC sub-protocol frame kinds, per
// spec §6's "leading discriminator byte in {0..4}" and SPEC_FULL.md's
// supplemented fixed assignment.
type DCCKind uint8

const (
	DCCReserved DCCKind = iota
	DCCChatFrame
	DCCSendFrame
	DCCResumeFrame
	DCCSecureFrame
)

// dccFrameHeaderLen is the discriminator byte plus a 4-byte
// big-endian body length prefix.
const dccFrameHeaderLen = 5

// DCCFrame is one decoded binary frame. Body is opaque: the core
// never interprets it, per spec §6 — decoding the body is delegated
// to an external DCC codec collaborator.
type DCCFrame struct {
	Kind DCCKind
	Body []byte
}

// decodeDCCFrame decodes the length-prefixed binary frame at buf[0:].
// It never advances partially: if the header or the full body is not
// yet buffered, it returns ErrFrameNeedsMoreData and 0 consumed bytes,
// per spec §4.3/S5.
func decodeDCCFrame(buf []byte) (DCCFrame, int, error) {
	if len(buf) < dccFrameHeaderLen {
		return DCCFrame{}, 0, ErrFrameNeedsMoreData
	}

	discriminator := buf[0]
	bodyLen := binary.BigEndian.Uint32(buf[1:5])
	total := dccFrameHeaderLen + int(bodyLen)

	if len(buf) < total {
		return DCCFrame{}, 0, ErrFrameNeedsMoreData
	}

	body := make([]byte, bodyLen)
	copy(body, buf[dccFrameHeaderLen:total])

	return DCCFrame{Kind: DCCKind(discriminator), Body: body}, total, nil
}

// encodeDCCFrame is the inverse of decodeDCCFrame, framing an opaque
// body behind its discriminator and length prefix.
func encodeDCCFrame(frame DCCFrame) []byte {
	out := make([]byte, dccFrameHeaderLen+len(frame.Body))
	out[0] = byte(frame.Kind)
	binary.BigEndian.PutUint32(out[1:5], uint32(len(frame.Body)))
	copy(out[dccFrameHeaderLen:], frame.Body)
	return out
}
