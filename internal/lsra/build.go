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

// BuildNode builds the positioned references for one non-contained node:
// internal register defs first, then operand uses, then internal register
// uses, then the node's own def, then any kill set. It returns the number
// of source registers the node consumes.
func (self *Builder) BuildNode(n *ir.Node) int {
    if n.IsContained() {
        badir(n, "contained node reached the demand builder")
    }

    srcCount := 0
    dstCount := 0
    isLocalDefUse := false

    /* reset the per-node build state */
    self.clearBuildState()

    /* default destination count, adjusted per opcode below */
    if n.IsValue() {
        dstCount = 1
        if n.IsUnusedValue() {
            isLocalDefUse = true
        }
    }

    switch n.Op {
        default: {
            srcCount = self.buildSimple(n)
        }

        case ir.OpLclVar: {
            /* the final containment / candidacy decision for local loads
             * is made after liveness; either way nothing is built here */
            if n.Lcl != nil && n.Lcl.Candidate {
                self.out.setDemand(n, NodeDemand{})
                return 0
            }
            srcCount, dstCount = self.buildLclLoad(n), 1
        }

        case ir.OpLclFld: {
            srcCount, dstCount = self.buildLclLoad(n), 1
        }

        case ir.OpStoreLclVar, ir.OpStoreLclFld: {
            if n.Op == ir.OpStoreLclVar && n.IsMultiReg() && n.Lcl != nil && n.Lcl.Candidate {
                dstCount = n.Lcl.FieldCnt
            }
            srcCount = self.buildStoreLoc(n)
        }

        case ir.OpFieldList: {
            /* never allocated standalone, always consumed by a parent */
            badir(n, "non-contained FieldList")
        }

        case ir.OpNop, ir.OpNoOp, ir.OpStartNonGC: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 0)
        }

        case ir.OpProfHook: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 0)
            self.kills(n, self.prof.KillSetFor(arch.HelperProfiler))
        }

        case ir.OpStartPreemptGC: {
            /* kills GC refs in callee saved registers */
            srcCount = 0
            self.checkDstCount(n, dstCount, 0)
            self.kills(n, arch.EmptySet)
        }

        case ir.OpCnsDbl: {
            /* the ISA has no float immediate load, the constant comes out
             * of a literal pool whose address needs an integer scratch */
            self.internalIntDef(n)
            self.internalUses()
            srcCount = self.buildConstDef(n)
        }

        case ir.OpCnsInt: {
            srcCount = self.buildConstDef(n)
        }

        case ir.OpBox, ir.OpComma, ir.OpQMark, ir.OpColon: {
            badir(n, "%s must be expanded before lowering", n.Op)
        }

        case ir.OpReturn: {
            srcCount = self.buildReturn(n)
            self.kills(n, self.killSetForReturn(n))
        }

        case ir.OpRetFilter: {
            self.checkDstCount(n, dstCount, 0)
            if n.TypeIs(ir.TypVoid) {
                srcCount = 0
            } else {
                if !n.TypeIs(ir.TypInt) {
                    badir(n, "filter returns must produce an int")
                }
                srcCount = 1
                self.use(n.Op1, self.prof.IntRet)
            }
        }

        case ir.OpKeepAlive: {
            self.checkDstCount(n, dstCount, 0)
            srcCount = self.operandUses(n.Op1, arch.EmptySet)
        }

        case ir.OpJTrue, ir.OpJmp: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 0)
        }

        case ir.OpSwitch: {
            badir(n, "Switch must be lowered to a jump table")
        }

        case ir.OpJmpTable: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 1)
            self.def(n, arch.EmptySet)
        }

        case ir.OpSwitchTable: {
            self.internalIntDef(n)
            srcCount = self.binaryUses(n, arch.EmptySet)
            self.internalUses()
            self.checkDstCount(n, dstCount, 0)
        }

        case ir.OpAdd, ir.OpSub: {
            if n.Type.IsFloating() {
                /* overflow checks do not exist on floats, and lowering has
                 * made every conversion explicit already */
                if n.IsOverflow() {
                    badir(n, "overflow check on a floating point %s", n.Op)
                }
                if n.Op1.Type != n.Op2.Type {
                    badir(n, "mixed operand types: %s vs %s", n.Op1.Type, n.Op2.Type)
                }
            } else if n.IsOverflow() {
                /* the overflow comparison value must survive past the
                 * destination write, in a register distinct from it */
                self.internalIntDef(n)
                self.internalDelay = true
            }
            srcCount = self.buildBinaryOp(n, dstCount)
        }

        case ir.OpMul: {
            if n.IsOverflow() {
                self.internalIntDef(n)
                self.internalDelay = true
            }
            srcCount = self.buildBinaryOp(n, dstCount)
        }

        case ir.OpAnd, ir.OpAndNot, ir.OpOr, ir.OpXor,
             ir.OpLsh, ir.OpRsh, ir.OpRsz, ir.OpRor,
             ir.OpMulHi, ir.OpDiv, ir.OpUDiv, ir.OpMod, ir.OpUMod: {
            srcCount = self.buildBinaryOp(n, dstCount)
        }

        case ir.OpReturnTrap: {
            /* compare of the child against zero plus a conditional call
             * into the GC suspension helper */
            self.use(n.Op1, arch.EmptySet)
            srcCount = 1
            self.checkDstCount(n, dstCount, 0)
            self.kills(n, self.prof.KillSetFor(arch.HelperStopForGC))
        }

        case ir.OpIntrinsic: {
            srcCount = self.buildIntrinsic(n, dstCount)
        }

        case ir.OpHWIntrinsic: {
            srcCount = self.buildHWIntrinsic(n, &dstCount)
        }

        case ir.OpCast: {
            self.checkDstCount(n, dstCount, 1)
            srcCount = self.buildCast(n)
        }

        case ir.OpNeg, ir.OpNot: {
            self.use(n.Op1, arch.EmptySet)
            srcCount = 1
            self.checkDstCount(n, dstCount, 1)
            self.def(n, arch.EmptySet)
        }

        case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGe, ir.OpGt, ir.OpJCmp: {
            srcCount = self.buildCmp(n)
        }

        case ir.OpCkFinite: {
            /* the classification mask lives in an integer register that
             * must differ from the destination */
            srcCount = 1
            self.checkDstCount(n, dstCount, 1)
            self.internalIntDef(n)
            self.use(n.Op1, arch.EmptySet)
            self.def(n, arch.EmptySet)
            self.internalUses()
        }

        case ir.OpCmpXchg, ir.OpLockAdd, ir.OpXOrr, ir.OpXAnd, ir.OpXAdd, ir.OpXChg: {
            nyi(n, self.prof.Name)
        }

        case ir.OpPutArgStk: {
            srcCount = self.buildPutArgStk(n)
        }

        case ir.OpPutArgReg: {
            srcCount = self.buildPutArgReg(n)
        }

        case ir.OpCall: {
            srcCount = self.buildCall(n)
            if n.IsMultiReg() {
                dstCount = len(n.RetRegs)
            }
        }

        case ir.OpBlk: {
            badir(n, "non-store block node survived lowering")
        }

        case ir.OpStoreBlk: {
            srcCount = self.buildBlockStore(n)
        }

        case ir.OpInitVal: {
            badir(n, "InitVal is a passthrough and must be contained")
        }

        case ir.OpLclHeap: {
            self.checkDstCount(n, dstCount, 1)
            srcCount = self.buildLclHeap(n)
        }

        case ir.OpBoundsCheck: {
            /* consumes index and length, produces nothing */
            self.checkDstCount(n, dstCount, 0)
            srcCount = self.operandUses(n.Op1, arch.EmptySet)
            srcCount += self.operandUses(n.Op2, arch.EmptySet)
        }

        case ir.OpArrElem: {
            badir(n, "ArrElem must be lowered to address arithmetic")
        }

        case ir.OpLea: {
            srcCount = self.buildAddrMode(n, dstCount)
        }

        case ir.OpStoreInd: {
            self.checkDstCount(n, dstCount, 0)
            if self.isWriteBarrierStore(n) {
                srcCount = self.buildGCWriteBarrier(n)
                break
            }
            srcCount = self.buildIndir(n)
            if !n.Op2.IsContained() {
                self.use(n.Op2, arch.EmptySet)
                srcCount++
            }
        }

        case ir.OpNullCheck, ir.OpInd: {
            if n.Op == ir.OpNullCheck {
                self.checkDstCount(n, dstCount, 0)
            } else {
                self.checkDstCount(n, dstCount, 1)
            }
            srcCount = self.buildIndir(n)
        }

        case ir.OpCatchArg: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 1)
            self.def(n, self.prof.ExceptionObject.Mask())
        }

        case ir.OpAsyncContinuation: {
            srcCount = 0
            self.checkDstCount(n, dstCount, 1)
            self.def(n, self.prof.AsyncContinuationRet.Mask())
        }

        case ir.OpIndexAddr: {
            self.checkDstCount(n, dstCount, 1)
            srcCount = self.binaryUses(n, arch.EmptySet)
            self.internalIntDef(n)
            self.internalUses()
            self.def(n, arch.EmptySet)
        }
    }

    if n.IsUnusedValue() && dstCount != 0 {
        isLocalDefUse = true
    }

    /* srcCount and dstCount must agree with what was actually built and
     * with the node's declared register shape */
    if dstCount >= 2 && !n.IsMultiReg() {
        badir(n, "%d destinations on a single-register node", dstCount)
    }
    if isLocalDefUse != (n.IsValue() && n.IsUnusedValue()) {
        badir(n, "unused value flag disagrees with the def built")
    }
    if n.IsUnusedValue() && dstCount == 0 {
        badir(n, "unused value without a def")
    }
    if dstCount != n.RegCount() {
        badir(n, "built %d destinations, node declares %d", dstCount, n.RegCount())
    }
    if srcCount != self.nodeUses {
        badir(n, "srcCount %d disagrees with %d uses built", srcCount, self.nodeUses)
    }

    self.out.setDemand(n, NodeDemand {
        Src      : srcCount,
        Dst      : dstCount,
        Internal : self.nodeInternals,
    })
    return srcCount
}

/* buildSimple is the default handler: one use per non-contained operand,
 * one def when the node produces a value. */
func (self *Builder) buildSimple(n *ir.Node) (srcCount int) {
    for _, op := range n.Operands() {
        srcCount += self.operandUses(op, arch.EmptySet)
    }
    if n.IsValue() {
        self.def(n, arch.EmptySet)
    }
    return
}

func (self *Builder) buildConstDef(n *ir.Node) int {
    self.checkDstCount(n, 1, 1)
    d := self.def(n, arch.EmptySet)
    d.Interval.IsConstant = true
    return 0
}

func (self *Builder) buildBinaryOp(n *ir.Node, dstCount int) int {
    srcCount := self.binaryUses(n, arch.EmptySet)
    self.internalUses()
    self.checkDstCount(n, dstCount, 1)
    self.def(n, arch.EmptySet)
    return srcCount
}

func (self *Builder) buildIntrinsic(n *ir.Node, dstCount int) int {
    switch n.Intrin {
        case ir.IntrinAbs, ir.IntrinCeiling, ir.IntrinFloor, ir.IntrinRound, ir.IntrinSqrt: {
            /* single-instruction math intrinsics on this target */
        }

        default: {
            badir(n, "intrinsic %s not expected here", n.Intrin)
        }
    }

    /* operand and result must be the same floating point type */
    if !n.Op1.Type.IsFloating() || n.Op1.Type != n.Type {
        badir(n, "intrinsic %s on %s operand", n.Intrin, n.Op1.Type)
    }

    self.use(n.Op1, arch.EmptySet)
    self.checkDstCount(n, dstCount, 1)
    self.def(n, arch.EmptySet)
    return 1
}

/* buildLclLoad loads a stack local into a register. A 12-byte vector is
 * read as an 8-byte and a 4-byte access, assembled through an extra
 * integer register that overlaps the destination's lifetime. */
func (self *Builder) buildLclLoad(n *ir.Node) int {
    if n.TypeIs(ir.TypSimd12) {
        self.internalIntDef(n)
        self.internalDelay = true
        self.internalUses()
    }
    self.def(n, arch.EmptySet)
    return 0
}

/* buildStoreLoc stores a register value into a stack local, or spreads a
 * multi-register value across a promoted local's fields. */
func (self *Builder) buildStoreLoc(n *ir.Node) (srcCount int) {
    op1 := n.Op1

    /* multi-register store: one use per slot of the producing node, and
     * one def per field when the local's fields live in registers */
    if n.Op == ir.OpStoreLclVar && n.IsMultiReg() {
        cnt := op1.RegCount()
        for i := 0; i < cnt; i++ {
            self.useIdx(op1, i, arch.EmptySet)
        }

        if n.Lcl != nil && n.Lcl.Candidate {
            if n.Lcl.FieldCnt != cnt {
                badir(n, "field count %d disagrees with a %d-register source", n.Lcl.FieldCnt, cnt)
            }
            for i := 0; i < cnt; i++ {
                self.defIdx(n, i, arch.EmptySet)
            }
        }
        return cnt
    }

    /* writing the upper lane of a 12-byte vector needs a scalar scratch */
    if n.TypeIs(ir.TypSimd12) {
        self.internalIntDef(n)
    }

    if !op1.IsContained() {
        self.use(op1, arch.EmptySet)
        srcCount = 1
    }
    self.internalUses()
    return
}

func (self *Builder) buildCmp(n *ir.Node) int {
    srcCount := self.binaryUses(n, arch.EmptySet)
    if n.IsValue() {
        self.def(n, arch.EmptySet)
    }
    return srcCount
}

/* buildReturn pins the return value into the ABI return register, or one
 * use per slot for multi-register returns. */
func (self *Builder) buildReturn(n *ir.Node) int {
    op1 := n.Op1

    if n.TypeIs(ir.TypVoid) || op1 == nil {
        return 0
    }

    if op1.IsMultiReg() {
        if len(op1.RetRegs) == 0 {
            badir(n, "multi-register return source without a register shape")
        }
        for i, r := range op1.RetRegs {
            self.useIdx(op1, i, r.Mask())
        }
        return len(op1.RetRegs)
    }

    self.use(op1, self.retMask(n.Type))
    return 1
}

func (self *Builder) retMask(t ir.Type) arch.RegSet {
    switch {
        case t.IsFloating() || t.IsSIMD() : return self.prof.FltRet
        case t == ir.TypLong              : return self.prof.LngRet
        default                           : return self.prof.IntRet
    }
}

func (self *Builder) killSetForReturn(_ *ir.Node) arch.RegSet {
    return arch.EmptySet
}

/* buildPutArgReg pins an outgoing register argument into its ABI slot and
 * records the placement for the upcoming call. */
func (self *Builder) buildPutArgReg(n *ir.Node) int {
    self.use(n.Op1, n.ArgReg.Mask())
    self.def(n, n.ArgReg.Mask())
    self.placedArgRegs = self.placedArgRegs.Union(n.ArgReg.Mask())
    return 1
}

/* buildAddrMode instantiates an effective address. The ISA cannot encode
 * base + index + offset in one instruction, nor an offset beyond the
 * signed immediate field, so either case takes one integer scratch. */
func (self *Builder) buildAddrMode(n *ir.Node, dstCount int) (srcCount int) {
    base := n.Op1
    index := n.Op2
    cns := n.Off

    if base != nil {
        srcCount++
        self.use(base, arch.EmptySet)
    }
    if index != nil {
        srcCount++
        self.use(index, arch.EmptySet)
    }
    self.checkDstCount(n, dstCount, 1)

    /* when both conditions hold a single scratch still suffices */
    if index != nil && cns != 0 {
        self.internalIntDef(n)
    } else if !self.prof.ValidOffset(cns) {
        self.internalIntDef(n)
    }

    self.internalUses()
    self.def(n, arch.EmptySet)
    return
}

/* operandUses builds the uses of one operand. A contained operand emits
 * nothing itself; its own non-contained operands are charged to the
 * consuming node. */
func (self *Builder) operandUses(op *ir.Node, cand arch.RegSet) int {
    if op == nil {
        return 0
    }

    if !op.IsContained() {
        self.use(op, cand)
        return 1
    }

    switch op.Op {
        case ir.OpLea: {
            cnt := 0
            if op.Op1 != nil {
                cnt += self.operandUses(op.Op1, arch.EmptySet)
            }
            if op.Op2 != nil {
                cnt += self.operandUses(op.Op2, arch.EmptySet)
            }
            return cnt
        }

        case ir.OpInd: {
            return self.indirUses(op)
        }

        default: {
            cnt := 0
            for _, p := range op.Operands() {
                cnt += self.operandUses(p, arch.EmptySet)
            }
            return cnt
        }
    }
}

func (self *Builder) binaryUses(n *ir.Node, cand arch.RegSet) int {
    return self.operandUses(n.Op1, cand) + self.operandUses(n.Op2, cand)
}

/* indirUses builds the address operand uses of an indirection. */
func (self *Builder) indirUses(n *ir.Node) int {
    addr := n.Op1

    if !addr.IsContained() {
        self.use(addr, arch.EmptySet)
        return 1
    }

    /* a folded address mode contributes its base and index registers */
    if addr.Op == ir.OpLea {
        cnt := 0
        if addr.Op1 != nil {
            cnt += self.operandUses(addr.Op1, arch.EmptySet)
        }
        if addr.Op2 != nil {
            cnt += self.operandUses(addr.Op2, arch.EmptySet)
        }
        return cnt
    }

    /* local frame addresses fold completely */
    if addr.Op == ir.OpLclAddr {
        return 0
    }
    return self.operandUses(addr, arch.EmptySet)
}

func (self *Builder) checkDstCount(n *ir.Node, have int, want int) {
    if have != want {
        badir(n, "expected %d destinations, node shape gives %d", want, have)
    }
}
