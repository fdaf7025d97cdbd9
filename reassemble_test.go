/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"testing"
	"time"

	"github.com/btnmasher/random"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReassemblerSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reassembler Suite")
}

func fragmentMessage(groupID string, part, total uint32, payload string) (*Message, Command) {
	meta := MultipartMetadata{GroupID: groupID, Timestamp: time.Now().UnixMilli(), PartNumber: part, TotalParts: total}
	msg := &Message{Tags: NewTags()}
	msg.Tags.Set(MetadataTagKey, encodeMetadataTag(meta))

	cmd := Command{Kind: KindPrivMsg, Recipients: []Recipient{{Kind: RecipientAll}}, Text: payload, HasText: true}
	return msg, cmd
}

var _ = Describe("Reassembler", func() {
	var r *Reassembler

	BeforeEach(func() {
		r = NewReassembler(ReassemblerBounds{MaxGroups: 8, MaxBytesPerGroup: 1 << 16, GroupTTL: time.Minute}, nil)
	})

	AfterEach(func() {
		r.Close()
	})

	Context("single-part passthrough", func() {
		It("releases immediately when no metadata tag is present", func() {
			msg := &Message{Tags: NewTags()}
			cmd := Command{Kind: KindPrivMsg, Text: "hello", HasText: true}

			joined, complete, err := r.Process(msg, cmd)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete).To(BeTrue())
			Expect(joined).To(Equal("hello"))
		})
	})

	// S3 Multipart reassemble.
	Context("two fragments arriving in reverse order", func() {
		It("returns None then Complete", func() {
			msg2, cmd2 := fragmentMessage("g1", 2, 2, "Part 2")
			_, complete, err := r.Process(msg2, cmd2)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete).To(BeFalse())

			msg1, cmd1 := fragmentMessage("g1", 1, 2, "Part 1")
			joined, complete, err := r.Process(msg1, cmd1)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete).To(BeTrue())
			Expect(joined).To(Equal("Part 1Part 2"))
		})
	})

	// Property 6 (interleaving isolation), in the shape of S4.
	Context("two interleaved groups", func() {
		It("completes both with their own payloads, independent of arrival order", func() {
			m1, c1 := fragmentMessage("g1", 1, 2, "First message")
			m2, c2 := fragmentMessage("g2", 2, 2, "Second message")
			m3, c3 := fragmentMessage("g1", 2, 2, "_First message_")
			m4, c4 := fragmentMessage("g2", 1, 2, "Second message")

			_, complete1, err := r.Process(m1, c1)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete1).To(BeFalse())

			_, complete2, err := r.Process(m2, c2)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete2).To(BeFalse())

			joinedG1, complete3, err := r.Process(m3, c3)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete3).To(BeTrue())
			Expect(joinedG1).To(Equal("First message_First message_"))

			joinedG2, complete4, err := r.Process(m4, c4)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete4).To(BeTrue())
			Expect(joinedG2).To(Equal("Second messageSecond message"))
		})
	})

	// Property 6, generalized: several groups with random payload
	// chunks, arriving in an interleaving where every group's second
	// fragment precedes its first.
	Context("randomized interleaved groups", func() {
		It("completes every group with the exact concatenation of its own random chunks, independent of arrival order", func() {
			type fragSeed struct {
				gid     string
				part    uint32
				total   uint32
				payload string
			}

			want := make(map[string]string)
			var arrivals []fragSeed

			for _, gid := range []string{"rg1", "rg2", "rg3"} {
				a, b := random.String(32), random.String(32)
				want[gid] = a + b
				arrivals = append(arrivals,
					fragSeed{gid, 1, 2, a},
					fragSeed{gid, 2, 2, b},
				)
			}

			// indexes 1,3,5 are every group's second fragment; 0,2,4 are
			// every group's first. Second-before-first for all three.
			order := []int{1, 3, 5, 0, 2, 4}

			got := make(map[string]string)
			for _, idx := range order {
				seed := arrivals[idx]
				msg, cmd := fragmentMessage(seed.gid, seed.part, seed.total, seed.payload)
				joined, complete, err := r.Process(msg, cmd)
				Expect(err).NotTo(HaveOccurred())
				if complete {
					got[seed.gid] = joined
				}
			}

			Expect(got).To(Equal(want))
		})
	})

	Context("fragment exceeding the configured chunk size", func() {
		It("reports PayloadTooLargeError without disturbing other groups", func() {
			tiny := NewReassembler(ReassemblerBounds{MaxGroups: 8, MaxBytesPerGroup: 1 << 16, GroupTTL: time.Minute, ChunkSize: 8}, nil)
			defer tiny.Close()

			oversized := random.String(64)
			msg, cmd := fragmentMessage("oversized", 1, 2, oversized)
			_, complete, err := tiny.Process(msg, cmd)
			Expect(complete).To(BeFalse())
			Expect(err).To(HaveOccurred())

			var tooLarge *PayloadTooLargeError
			Expect(err).To(BeAssignableToTypeOf(tooLarge))
		})
	})

	Context("duplicate part_number", func() {
		It("reports AcknowledgmentCorrupted and evicts the group", func() {
			msg, cmd := fragmentMessage("g3", 1, 2, "chunk")
			_, _, err := r.Process(msg, cmd)
			Expect(err).NotTo(HaveOccurred())

			dupMsg, dupCmd := fragmentMessage("g3", 1, 2, "chunk-again")
			_, complete, err := r.Process(dupMsg, dupCmd)
			Expect(complete).To(BeFalse())
			Expect(err).To(HaveOccurred())

			var corrupted *AcknowledgmentCorruptedError
			Expect(err).To(BeAssignableToTypeOf(corrupted))
		})
	})

	Context("exceeding max_groups", func() {
		It("evicts the oldest group and reports a MediaCache-class error via logging, not via the newest fragment", func() {
			small := NewReassembler(ReassemblerBounds{MaxGroups: 1, MaxBytesPerGroup: 1 << 16, GroupTTL: time.Minute}, nil)
			defer small.Close()

			m1, c1 := fragmentMessage("oldest", 1, 2, "a")
			_, _, err := small.Process(m1, c1)
			Expect(err).NotTo(HaveOccurred())

			m2, c2 := fragmentMessage("newest", 1, 2, "b")
			_, complete, err := small.Process(m2, c2)
			Expect(err).NotTo(HaveOccurred())
			Expect(complete).To(BeFalse())
		})
	})

	Context("exceeding max_bytes_per_group", func() {
		It("evicts the group and reports MediaCacheError", func() {
			tight := NewReassembler(ReassemblerBounds{MaxGroups: 8, MaxBytesPerGroup: 4, GroupTTL: time.Minute}, nil)
			defer tight.Close()

			msg, cmd := fragmentMessage("big", 1, 2, "toolong")
			_, complete, err := tight.Process(msg, cmd)
			Expect(complete).To(BeFalse())
			Expect(err).To(HaveOccurred())

			var mediaErr *MediaCacheError
			Expect(err).To(BeAssignableToTypeOf(mediaErr))
		})
	})
})
