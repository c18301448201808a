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

/* buildIndir computes the address demand of a load, store or null check:
 * the base / index uses, plus one integer scratch when the folded address
 * mode cannot be encoded in a single instruction. */
func (self *Builder) buildIndir(n *ir.Node) int {
    addr := n.Op1

    /* struct typed indirections only appear as the source of a block
     * copy, where they must be contained */
    if n.TypeIs(ir.TypStruct) {
        badir(n, "struct typed indirection")
    }

    if addr.IsContained() && addr.Op == ir.OpLea {
        index := addr.Op2
        cns := addr.Off

        /* one scratch covers both conditions when they hold together */
        if index != nil && cns != 0 {
            self.internalIntDef(n)
        } else if !self.prof.ValidOffset(cns) {
            self.internalIntDef(n)
        }
    }

    /* a 12-byte vector moves as an 8-byte and a 4-byte access, assembled
     * through an extra integer register; its address is never folded */
    if n.TypeIs(ir.TypSimd12) {
        if addr.IsContained() {
            badir(n, "folded address on a 12-byte vector access")
        }
        self.internalIntDef(n)
    }

    srcCount := self.indirUses(n)
    self.internalUses()

    if !n.OperIs(ir.OpStoreInd, ir.OpNullCheck) {
        self.def(n, arch.EmptySet)
    }
    return srcCount
}

/* isWriteBarrierStore detects object reference stores the runtime's write
 * barrier protocol applies to: a GC-visible ref written with a value that
 * is itself a ref computed into a register. */
func (self *Builder) isWriteBarrierStore(n *ir.Node) bool {
    if !n.TypeIs(ir.TypRef) {
        return false
    } else {
        return n.Op2.TypeIs(ir.TypRef) && !n.Op2.IsIntCon()
    }
}

/* buildGCWriteBarrier pins the address and the value of a barriered store
 * into the registers the barrier helper reads them from, and attaches the
 * helper's clobber set. */
func (self *Builder) buildGCWriteBarrier(n *ir.Node) int {
    addr := n.Op1
    data := n.Op2

    if addr.IsContained() || data.IsContained() {
        badir(n, "contained operand on a write barrier store")
    }

    self.use(addr, self.prof.WriteBarrierDst.Mask())
    self.use(data, self.prof.WriteBarrierSrc.Mask())
    self.kills(n, self.prof.KillSetFor(arch.HelperWriteBarrier))
    return 2
}
