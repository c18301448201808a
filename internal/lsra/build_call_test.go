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
    `testing`

    `github.com/loongjit/loongjit/internal/arch`
    `github.com/loongjit/loongjit/internal/ir`
    `github.com/loongjit/loongjit/internal/loong64`
    `github.com/stretchr/testify/require`
)

func directCall(t ir.Type, args ...*ir.Node) *ir.Node {
    return &ir.Node {
        Op   : ir.OpCall,
        Type : t,
        Call : &ir.CallInfo { Kind: ir.CallDirect, Args: args },
    }
}

func TestBuildCall_Void(t *testing.T) {
    call := directCall(ir.TypVoid)
    out := build(t, method(call))

    require.Equal(t, NodeDemand{}, out.Demand(call))
    require.Empty(t, out.DefsOf(call))

    kk := out.KillsOf(call)
    require.Len(t, kk, 1)
    require.Equal(t, testProf.CallKill, kk[0].Candidates)
    require.True(t, kk[0].Candidates.Contains(loong64.RA))
}

func TestBuildCall_SingleReturn(t *testing.T) {
    call := directCall(ir.TypLong)
    call.Flags = ir.FlagUnusedValue
    out := build(t, method(call))

    require.Equal(t, NodeDemand { Dst: 1 }, out.Demand(call))

    dd := out.DefsOf(call)
    require.Len(t, dd, 1)
    require.Equal(t, testProf.LngRet, dd[0].Candidates)

    /* a single return keeps the full clobber set, the def wins over the
     * kill at the same position */
    require.Equal(t, testProf.CallKill, out.KillsOf(call)[0].Candidates)
}

func TestBuildCall_MultiRegReturn(t *testing.T) {
    call := directCall(ir.TypStruct)
    call.Flags = ir.FlagMultiReg
    call.RetRegs = []arch.Reg { loong64.A0, loong64.A1 }
    out := build(t, method(call))

    require.Equal(t, NodeDemand { Dst: 2 }, out.Demand(call))

    dd := out.DefsOf(call)
    require.Len(t, dd, 2)
    require.Equal(t, loong64.A0.Mask(), dd[0].Candidates)
    require.Equal(t, loong64.A1.Mask(), dd[1].Candidates)
    require.Equal(t, 0, dd[0].RegIdx)
    require.Equal(t, 1, dd[1].RegIdx)

    /* the result slots must survive the kill */
    kill := out.KillsOf(call)[0].Candidates
    require.False(t, kill.Contains(loong64.A0))
    require.False(t, kill.Contains(loong64.A1))
    require.True(t, kill.Contains(loong64.T2))
    require.True(t, kill.Contains(loong64.RA))
}

func TestBuildCall_Indirect(t *testing.T) {
    tgt := lcl(ir.TypLong)
    call := &ir.Node {
        Op   : ir.OpCall,
        Type : ir.TypVoid,
        Call : &ir.CallInfo { Kind: ir.CallIndirect, Target: tgt },
    }
    out := build(t, method(call))
    require.Equal(t, NodeDemand { Src: 1 }, out.Demand(call))

    rr := out.RefsOf(tgt)
    use := rr[len(rr)-1]
    require.Equal(t, RefUse, use.Kind)
    require.Equal(t, testProf.IntRegs, use.Candidates)
}

func TestBuildCall_FastTailTarget(t *testing.T) {
    tgt := lcl(ir.TypLong)
    call := &ir.Node {
        Op   : ir.OpCall,
        Type : ir.TypVoid,
        Call : &ir.CallInfo { Kind: ir.CallIndirect, FastTail: true, Target: tgt },
    }
    mth := method(call)
    mth.GSCookie = true
    out := build(t, mth)

    rr := out.RefsOf(tgt)
    cand := rr[len(rr)-1].Candidates

    /* the jump target is computed after the epilog restored the callee
     * saved registers and must avoid the cookie check scratches */
    require.Equal(t, arch.EmptySet, cand.Exclude(testProf.IntCalleeTrash))
    require.False(t, cand.Contains(loong64.T0))
    require.False(t, cand.Contains(loong64.T1))
    require.False(t, cand.Contains(loong64.S0))
    require.True(t, cand.Contains(loong64.T2))
}

func TestBuildCall_StubIndirect(t *testing.T) {
    call := &ir.Node {
        Op   : ir.OpCall,
        Type : ir.TypVoid,
        Call : &ir.CallInfo { Kind: ir.CallStubIndirect },
    }
    out := build(t, method(call))
    require.Equal(t, NodeDemand { Internal: 1 }, out.Demand(call))

    ii := out.InternalsOf(call)
    require.Len(t, ii, 1)
    require.Equal(t, testProf.IntRegs, ii[0].Candidates)

    /* tail called stubs restrict the scratch the same way as a computed
     * jump target */
    call = &ir.Node {
        Op   : ir.OpCall,
        Type : ir.TypVoid,
        Call : &ir.CallInfo { Kind: ir.CallStubIndirect, FastTail: true },
    }
    out = build(t, method(call))

    cand := out.InternalsOf(call)[0].Candidates
    require.Equal(t, arch.EmptySet, cand.Exclude(testProf.IntCalleeTrash))
    require.True(t, cand.Contains(loong64.T2))
}

func TestBuildCall_RegisterArgs(t *testing.T) {
    v := lcl(ir.TypLong)
    pa := &ir.Node { Op: ir.OpPutArgReg, Type: ir.TypLong, Op1: v, ArgReg: loong64.A0 }
    call := directCall(ir.TypVoid, pa)
    out := build(t, method(call))

    /* the placement node itself moves the value into its ABI slot */
    require.Equal(t, NodeDemand { Src: 1, Dst: 1 }, out.Demand(pa))
    require.Equal(t, loong64.A0.Mask(), out.DefsOf(pa)[0].Candidates)

    /* the call consumes it right there */
    require.Equal(t, NodeDemand { Src: 1 }, out.Demand(call))
    rr := out.RefsOf(pa)
    require.Equal(t, RefUse, rr[len(rr)-1].Kind)
    require.Equal(t, loong64.A0.Mask(), rr[len(rr)-1].Candidates)
}

func TestBuildCall_StackArgs(t *testing.T) {
    v := lcl(ir.TypLong)
    ps := &ir.Node { Op: ir.OpPutArgStk, Type: ir.TypVoid, Op1: v }
    call := directCall(ir.TypVoid, ps)
    out := build(t, method(call))

    /* stack arguments were consumed at their placement node */
    require.Equal(t, NodeDemand { Src: 1 }, out.Demand(ps))
    require.Equal(t, NodeDemand{}, out.Demand(call))
}

func TestBuildCall_SplitArg(t *testing.T) {
    lo := &ir.Node { Op: ir.OpPutArgReg, Type: ir.TypLong, Op1: lcl(ir.TypLong), ArgReg: loong64.A0 }
    hi := &ir.Node { Op: ir.OpPutArgReg, Type: ir.TypLong, Op1: lcl(ir.TypLong), ArgReg: loong64.A1 }
    fl := &ir.Node {
        Op     : ir.OpFieldList,
        Type   : ir.TypStruct,
        Flags  : ir.FlagContained,
        Fields : []*ir.Node { lo, hi },
    }
    call := directCall(ir.TypVoid, fl)
    out := build(t, method(call))

    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(call))
    require.Empty(t, out.RefsOf(fl))
}

func TestBuildCall_ResetsPlacedArgs(t *testing.T) {
    v := lcl(ir.TypLong)
    pa := &ir.Node { Op: ir.OpPutArgReg, Type: ir.TypLong, Op1: v, ArgReg: loong64.A0 }
    call := directCall(ir.TypVoid, pa)

    b := NewBuilder(testProf, method(call))
    b.out.advance()
    b.BuildNode(v)
    b.out.advance()
    b.BuildNode(pa)

    require.Equal(t, loong64.A0.Mask(), b.placedArgRegs)

    b.out.advance()
    b.BuildNode(call)
    require.Equal(t, arch.EmptySet, b.placedArgRegs)
}

func TestBuildCall_KillInvalidatesPlacedArgs(t *testing.T) {
    v := lcl(ir.TypLong)
    pa := &ir.Node { Op: ir.OpPutArgReg, Type: ir.TypLong, Op1: v, ArgReg: loong64.A0 }
    call := directCall(ir.TypVoid, pa)

    /* a GC suspension point during argument setup clobbers the placed
     * register, so the argument has to be placed again */
    w := lcl(ir.TypLong)
    trap := &ir.Node { Op: ir.OpReturnTrap, Type: ir.TypVoid, Op1: w }

    mth := &ir.Method { Code: []*ir.Node { v, pa, w, trap, call } }
    out := build(t, mth)

    kk := out.KillsOf(trap)
    require.Len(t, kk, 1)
    require.Equal(t, loong64.A0.Mask(), kk[0].PlacedArgs)

    /* the call consumed its arguments, its own kill invalidates nothing */
    require.Equal(t, arch.EmptySet, out.KillsOf(call)[0].PlacedArgs)
}

func TestBuild_PutArgStkStruct(t *testing.T) {
    /* enumerated fields: one use each, no scratch */
    a := lcl(ir.TypLong)
    b := lcl(ir.TypDouble)
    fl := &ir.Node {
        Op     : ir.OpFieldList,
        Type   : ir.TypStruct,
        Flags  : ir.FlagContained,
        Fields : []*ir.Node { a, b },
    }
    ps := &ir.Node { Op: ir.OpPutArgStk, Type: ir.TypVoid, Op1: fl }
    out := build(t, method(ps))
    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(ps))

    /* fully folded frame-to-frame move: two scratches, no sources */
    addr := &ir.Node { Op: ir.OpLclAddr, Type: ir.TypByref, Flags: ir.FlagContained }
    blk := &ir.Node { Op: ir.OpBlk, Type: ir.TypStruct, Flags: ir.FlagContained, Op1: addr }
    ps = &ir.Node { Op: ir.OpPutArgStk, Type: ir.TypVoid, Op1: blk }
    out = build(t, method(ps))
    require.Equal(t, NodeDemand { Internal: 2 }, out.Demand(ps))

    /* arbitrary source address: the address register is consumed */
    blk = &ir.Node { Op: ir.OpBlk, Type: ir.TypStruct, Flags: ir.FlagContained, Op1: lcl(ir.TypByref) }
    ps = &ir.Node { Op: ir.OpPutArgStk, Type: ir.TypVoid, Op1: blk }
    out = build(t, method(ps))
    require.Equal(t, NodeDemand { Src: 1, Internal: 2 }, out.Demand(ps))

    /* struct local kept in memory */
    sv := &ir.Node { Op: ir.OpLclVar, Type: ir.TypStruct, Flags: ir.FlagContained }
    ps = &ir.Node { Op: ir.OpPutArgStk, Type: ir.TypVoid, Op1: sv }
    out = build(t, method(ps))
    require.Equal(t, NodeDemand { Internal: 2 }, out.Demand(ps))
}
