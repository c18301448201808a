/*
 * Copyright 2023 loongjit Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lsra

import (
    `strings`

    `github.com/loongjit/loongjit/internal/arch`
    `github.com/loongjit/loongjit/internal/ir`
)

type _NodeSlot struct {
    n *ir.Node
    i int
}

// NodeDemand is the per-node summary the allocation engine validates the
// node's declared register shape against.
type NodeDemand struct {
    Src      int
    Dst      int
    Internal int
}

// Stream is the per-method arena of intervals and positioned references
// this pass appends to. Its lifetime is scoped to one method compilation;
// the allocation engine consumes it afterwards.
type Stream struct {
    prof *arch.Profile
    ins  []*Interval
    refs []*RefPosition
    vals map[_NodeSlot]*Interval
    dmd  map[*ir.Node]NodeDemand
    loc  int
}

func newStream(prof *arch.Profile) *Stream {
    return &Stream {
        prof: prof,
        vals: make(map[_NodeSlot]*Interval),
        dmd : make(map[*ir.Node]NodeDemand),
        loc : -2,
    }
}

/* advance moves to the next node position. Uses read at the node position,
 * defs write one step later, so a def never clashes with its own uses. */
func (self *Stream) advance() {
    self.loc += 2
}

func (self *Stream) newInterval(cc arch.RegClass) (rv *Interval) {
    rv = &Interval { Id: len(self.ins), Class: cc }
    self.ins = append(self.ins, rv)
    return
}

/* intervalOf resolves the interval carrying slot i of node n's result,
 * creating it on first reference. */
func (self *Stream) intervalOf(n *ir.Node, i int, cc arch.RegClass) (rv *Interval) {
    var ok bool
    key := _NodeSlot { n, i }

    if rv, ok = self.vals[key]; !ok {
        rv = self.newInterval(cc)
        self.vals[key] = rv
    }
    return
}

func (self *Stream) append(r *RefPosition) *RefPosition {
    r.Seq = len(self.refs)
    self.refs = append(self.refs, r)
    return r
}

// Profile returns the rule table the stream was built against.
func (self *Stream) Profile() *arch.Profile {
    return self.prof
}

// Refs returns every positioned reference in append order.
func (self *Stream) Refs() []*RefPosition {
    return self.refs
}

// Intervals returns every interval in creation order.
func (self *Stream) Intervals() []*Interval {
    return self.ins
}

/// RefsOf returns the references owned by one node, in append order: the
// defs and kills it produced plus the uses of its own value.
func (self *Stream) RefsOf(n *ir.Node) (rr []*RefPosition) {
    for _, r := range self.refs {
        if r.Node == n {
            rr = append(rr, r)
        }
    }
    return
}

// DefsOf returns the non-internal defs of one node's result.
func (self *Stream) DefsOf(n *ir.Node) (rr []*RefPosition) {
    for _, r := range self.refs {
        if r.Node == n && r.Kind == RefDef && !r.Internal {
            rr = append(rr, r)
        }
    }
    return
}

// KillsOf returns the kill records attached to one node.
func (self *Stream) KillsOf(n *ir.Node) (rr []*RefPosition) {
    for _, r := range self.refs {
        if r.Node == n && r.Kind == RefKill {
            rr = append(rr, r)
        }
    }
    return
}

// InternalsOf returns the internal scratch defs requested by one node,
// in request order.
func (self *Stream) InternalsOf(n *ir.Node) (rr []*RefPosition) {
    for _, r := range self.refs {
        if r.Node == n && r.Kind == RefDef && r.Internal {
            rr = append(rr, r)
        }
    }
    return
}

func (self *Stream) setDemand(n *ir.Node, d NodeDemand) {
    self.dmd[n] = d
}

// Demand returns the source / destination / scratch register counts
// realized for one node.
func (self *Stream) Demand(n *ir.Node) NodeDemand {
    return self.dmd[n]
}

func (self *Stream) String() string {
    nb := len(self.refs)
    buf := make([]string, 0, nb)

    /* render every reference */
    for _, r := range self.refs {
        buf = append(buf, r.String())
    }

    /* join them together */
    return strings.Join(buf, "\n")
}
