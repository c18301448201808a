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
    `github.com/loongjit/loongjit/internal/arch`
    `github.com/loongjit/loongjit/internal/ir`
)

// Builder runs the register demand annotation pass over one method. It is
// single-threaded and strictly sequential; all mutable state lives here,
// scoped to the method being compiled.
type Builder struct {
    prof *arch.Profile
    mth  *ir.Method
    out  *Stream

    /* per-node build state, reset by clearBuildState */
    pendingInternal []*RefPosition
    internalDelay   bool
    nodeUses        int
    nodeInternals   int

    /* method-scope bookkeeping of arguments already placed in their ABI
     * registers: kills clobbering a placed register invalidate the
     * placement, the upcoming call consumes the rest */
    placedArgRegs arch.RegSet
}

// NewBuilder prepares a demand build of mth against the given profile.
func NewBuilder(prof *arch.Profile, mth *ir.Method) *Builder {
    return &Builder {
        prof: prof,
        mth : mth,
        out : newStream(prof),
    }
}

func (self *Builder) clearBuildState() {
    self.pendingInternal = self.pendingInternal[:0]
    self.internalDelay = false
    self.nodeUses = 0
    self.nodeInternals = 0
}

/* fullMask defaults an empty candidate mask to the whole register class. */
func (self *Builder) fullMask(cc arch.RegClass, cand arch.RegSet) arch.RegSet {
    if cand.IsEmpty() {
        return self.prof.AllRegs(cc)
    } else {
        return cand
    }
}

// use appends one use of op's value with the given candidates, empty
// meaning the full register class.
func (self *Builder) use(op *ir.Node, cand arch.RegSet) *RefPosition {
    return self.useIdx(op, 0, cand)
}

func (self *Builder) useIdx(op *ir.Node, idx int, cand arch.RegSet) *RefPosition {
    cc := arch.ClassInt
    if op.Type != ir.TypVoid && op.Type != ir.TypStruct {
        cc = op.Type.Class()
    }

    /* multi-register operands carry one class per slot */
    if op.IsMultiReg() && idx < len(op.RetRegs) {
        cc = op.RetRegs[idx].Class()
    }

    /* uses read at the node position */
    self.nodeUses++
    return self.out.append(&RefPosition {
        Pos        : self.out.loc,
        Kind       : RefUse,
        Node       : op,
        RegIdx     : idx,
        Interval   : self.out.intervalOf(op, idx, cc),
        Candidates : self.fullMask(cc, cand),
    })
}

// def appends the def of n's own result.
func (self *Builder) def(n *ir.Node, cand arch.RegSet) *RefPosition {
    return self.defIdx(n, 0, cand)
}

func (self *Builder) defIdx(n *ir.Node, idx int, cand arch.RegSet) *RefPosition {
    cc := arch.ClassInt
    if n.Type != ir.TypVoid && n.Type != ir.TypStruct {
        cc = n.Type.Class()
    }
    if n.IsMultiReg() && idx < len(n.RetRegs) {
        cc = n.RetRegs[idx].Class()
    }

    /* defs write one step past the node position */
    return self.out.append(&RefPosition {
        Pos        : self.out.loc + 1,
        Kind       : RefDef,
        Node       : n,
        RegIdx     : idx,
        Interval   : self.out.intervalOf(n, idx, cc),
        Candidates : self.fullMask(cc, cand),
    })
}

// kills records the registers destroyed by executing n. An empty mask is
// still recorded: it marks a GC visibility point with nothing clobbered.
// A kill that clobbers argument registers already placed for an upcoming
// call invalidates those placements; the record carries them so the
// engine knows to place the arguments again before the call.
func (self *Builder) kills(n *ir.Node, mask arch.RegSet) {
    placed := mask.Intersect(self.placedArgRegs)
    self.placedArgRegs = self.placedArgRegs.Exclude(placed)

    self.out.append(&RefPosition {
        Pos        : self.out.loc + 1,
        Kind       : RefKill,
        Node       : n,
        Candidates : mask,
        PlacedArgs : placed,
    })
}

// defWithKills attaches the kill set of a value-producing side effect to
// its def.
func (self *Builder) defWithKills(n *ir.Node, cand arch.RegSet, kill arch.RegSet) {
    self.kills(n, kill)
    self.def(n, cand)
}

// callDefsWithKills builds the N defs of a multi-register call result,
// each pinned to its ABI slot, with the slots excluded from the kill set.
func (self *Builder) callDefsWithKills(n *ir.Node, kill arch.RegSet) {
    slots := arch.EmptySet
    for _, r := range n.RetRegs {
        slots = slots.Union(r.Mask())
    }

    self.kills(n, kill.Exclude(slots))
    for i, r := range n.RetRegs {
        self.defIdx(n, i, r.Mask())
    }
}

// internalIntDef requests one internal integer scratch register for n.
func (self *Builder) internalIntDef(n *ir.Node) *RefPosition {
    return self.internalIntDefCand(n, arch.EmptySet)
}

func (self *Builder) internalIntDefCand(n *ir.Node, cand arch.RegSet) *RefPosition {
    iv := self.out.newInterval(arch.ClassInt)
    iv.IsInternal = true
    self.nodeInternals++

    r := self.out.append(&RefPosition {
        Pos        : self.out.loc,
        Kind       : RefDef,
        Node       : n,
        Interval   : iv,
        Candidates : self.fullMask(arch.ClassInt, cand),
        Internal   : true,
    })

    self.pendingInternal = append(self.pendingInternal, r)
    return r
}

// internalUses consumes every pending internal def, in request order. It
// must run once per node, after the operand uses are built.
func (self *Builder) internalUses() {
    for _, d := range self.pendingInternal {
        self.out.append(&RefPosition {
            Pos        : self.out.loc + 1,
            Kind       : RefUse,
            Node       : d.Node,
            Interval   : d.Interval,
            Candidates : d.Candidates,
            DelayFree  : self.internalDelay,
            Internal   : true,
        })
    }
    self.pendingInternal = self.pendingInternal[:0]
}
