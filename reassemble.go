/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"sort"
	"sync"
	"time"

	"github.com/btnmasher/ircwire/shared/concurrentmap"
	"github.com/sourcegraph/conc"
	"github.com/sirupsen/logrus"
)

// groupState tracks the fragments received so far for one group_id,
// per spec §4.5's "mapping group_id -> ordered-set of fragments".
type groupState struct {
	totalParts uint32
	parts      map[uint32]string
	bytes      int
	createdAt  time.Time
}

// Reassembler accepts interleaved fragments across many groups and
// emits each group's joined payload exactly once when complete, per
// spec §4.5 (C7). It is the one genuinely stateful component in the
// engine and per §5 MUST be treated as a single-owner resource; the
// order/eviction bookkeeping here is guarded by its own mutex so the
// underlying concurrentmap.ConcurrentMap can still be shared storage
// without races.
type Reassembler struct {
	bounds ReassemblerBounds
	logger *logrus.Logger

	groups concurrentmap.ConcurrentMap[string, *groupState]

	mu    sync.Mutex
	order []string // group ids in arrival order, oldest first

	sweepWG   conc.WaitGroup
	sweepStop chan struct{}
	sweepOnce sync.Once
}

// NewReassembler constructs a Reassembler bounded by bounds, logging
// through logger (a discard logger is installed if nil), and starts
// its background TTL-eviction sweep goroutine.
func NewReassembler(bounds ReassemblerBounds, logger *logrus.Logger) *Reassembler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(discardWriter{})
	}
	if bounds.GroupTTL <= 0 {
		bounds.GroupTTL = DefaultGroupTTL
	}
	if bounds.MaxGroups <= 0 {
		bounds.MaxGroups = DefaultMaxGroups
	}
	if bounds.MaxBytesPerGroup <= 0 {
		bounds.MaxBytesPerGroup = DefaultMaxBytesPerGroup
	}
	if bounds.ChunkSize <= 0 {
		bounds.ChunkSize = DefaultFragmentChunkSize
	}

	r := &Reassembler{
		bounds:    bounds,
		logger:    logger,
		groups:    concurrentmap.New[string, *groupState](),
		sweepStop: make(chan struct{}),
	}

	r.sweepWG.Go(r.sweepLoop)

	return r
}

// Close stops the background TTL sweep and waits for it to exit. Safe
// to call more than once.
func (r *Reassembler) Close() {
	r.sweepOnce.Do(func() { close(r.sweepStop) })
	r.sweepWG.Wait()
}

func (r *Reassembler) sweepLoop() {
	ticker := time.NewTicker(r.bounds.GroupTTL / 4)
	defer ticker.Stop()

	for {
		select {
		case <-r.sweepStop:
			return
		case <-ticker.C:
			r.evictExpired()
		}
	}
}

func (r *Reassembler) evictExpired() {
	now := time.Now()

	r.mu.Lock()
	var expired []string
	kept := r.order[:0:0]
	for _, id := range r.order {
		g, ok := r.groups.Get(id)
		if !ok {
			continue
		}
		if now.Sub(g.createdAt) >= r.bounds.GroupTTL {
			expired = append(expired, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	r.mu.Unlock()

	for _, id := range expired {
		r.groups.Delete(id)
		r.logger.WithFields(logrus.Fields{
			"component": "reassembler",
			"group_id":  id,
			"kind":      "ttl_evict",
		}).Warn("group evicted: ttl expired")
	}
}

// Process extracts the multipart metadata tag (if any) from msg and
// folds its fragment into the owning group, per spec §4.5's
// algorithm. cmd is the already-dispatched Command carried by msg,
// supplying the fragmentable payload slot. The returned bool is true
// iff the group (or the single-part passthrough) is now complete, in
// which case the string is the joined payload.
func (r *Reassembler) Process(msg *Message, cmd Command) (string, bool, error) {
	payload, ok := cmd.fragmentablePayload()
	if !ok {
		return "", false, nil
	}

	tagValue, hasTag := msg.Tags.Get(MetadataTagKey)
	if !hasTag {
		// Single-part payload: released immediately, per §4.5 step 1.
		return payload, true, nil
	}

	meta, err := decodeMetadataTag(tagValue)
	if err != nil {
		return "", false, err
	}
	if meta.PartNumber < 1 || meta.PartNumber > meta.TotalParts {
		return "", false, &AcknowledgmentCorruptedError{GroupID: meta.GroupID, Reason: "part_number out of range"}
	}
	if len(payload) > r.bounds.ChunkSize {
		return "", false, &PayloadTooLargeError{Size: len(payload), Max: r.bounds.ChunkSize}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	group, exists := r.groups.Get(meta.GroupID)
	if !exists {
		if r.groups.Length() >= r.bounds.MaxGroups {
			r.evictOldestLocked()
		}
		group = &groupState{totalParts: meta.TotalParts, parts: make(map[uint32]string), createdAt: time.Now()}
		r.groups.Set(meta.GroupID, group)
		r.order = append(r.order, meta.GroupID)
	}

	if group.totalParts != meta.TotalParts {
		r.removeGroupLocked(meta.GroupID)
		return "", false, &AcknowledgmentCorruptedError{GroupID: meta.GroupID, Reason: "total_parts mismatch"}
	}

	if _, dup := group.parts[meta.PartNumber]; dup {
		r.removeGroupLocked(meta.GroupID)
		return "", false, &AcknowledgmentCorruptedError{GroupID: meta.GroupID, Reason: "duplicate part_number"}
	}

	group.parts[meta.PartNumber] = payload
	group.bytes += len(payload)

	if group.bytes > r.bounds.MaxBytesPerGroup {
		r.removeGroupLocked(meta.GroupID)
		return "", false, &MediaCacheError{GroupID: meta.GroupID, Reason: "max_bytes_per_group exceeded"}
	}

	if uint32(len(group.parts)) < group.totalParts {
		return "", false, nil
	}

	joined := joinGroupParts(group)
	r.removeGroupLocked(meta.GroupID)

	return joined, true, nil
}

// evictOldestLocked evicts the oldest group by arrival order, per
// spec §4.5's "exceeding any bound evicts the oldest group". Caller
// must hold r.mu.
func (r *Reassembler) evictOldestLocked() {
	if len(r.order) == 0 {
		return
	}
	oldest := r.order[0]
	r.order = r.order[1:]
	r.groups.Delete(oldest)
	r.logger.WithFields(logrus.Fields{
		"component": "reassembler",
		"group_id":  oldest,
		"kind":      "capacity_evict",
	}).Warn("group evicted: max_groups exceeded")
}

// removeGroupLocked deletes a group from both the map and the order
// slice. Caller must hold r.mu.
func (r *Reassembler) removeGroupLocked(groupID string) {
	r.groups.Delete(groupID)
	for i, id := range r.order {
		if id == groupID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// joinGroupParts concatenates a complete group's chunks in ascending
// part_number order, per spec §4.5 step 3 and §8 property 4.
func joinGroupParts(group *groupState) string {
	nums := make([]uint32, 0, len(group.parts))
	for n := range group.parts {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	var out string
	for _, n := range nums {
		out += group.parts[n]
	}
	return out
}
