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

func initBlk(kind ir.BlkKind, size int64, dst *ir.Node, fill *ir.Node) *ir.Node {
    iv := &ir.Node { Op: ir.OpInitVal, Type: fill.Type, Flags: ir.FlagContained, Op1: fill }
    return &ir.Node {
        Op   : ir.OpStoreBlk,
        Type : ir.TypStruct,
        Op1  : dst,
        Op2  : iv,
        Blk  : &ir.BlkInfo { Kind: kind, Size: size },
    }
}

func copyBlk(kind ir.BlkKind, size int64, dst *ir.Node, srcAddr *ir.Node) *ir.Node {
    src := &ir.Node { Op: ir.OpInd, Type: ir.TypStruct, Flags: ir.FlagContained, Op1: srcAddr }
    return &ir.Node {
        Op   : ir.OpStoreBlk,
        Type : ir.TypStruct,
        Op1  : dst,
        Op2  : src,
        Blk  : &ir.BlkInfo { Kind: kind, Size: size },
    }
}

func TestBuildBlock_InitUnroll(t *testing.T) {
    st := initBlk(ir.BlkUnroll, 32, lcl(ir.TypByref), lcl(ir.TypLong))
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(st))

    kk := out.KillsOf(st)
    require.Len(t, kk, 1)
    require.Equal(t, arch.EmptySet, kk[0].Candidates)
}

func TestBuildBlock_InitUnrollFoldedDst(t *testing.T) {
    dst := &ir.Node { Op: ir.OpLclAddr, Type: ir.TypByref, Flags: ir.FlagContained }
    st := initBlk(ir.BlkUnroll, 32, dst, lcl(ir.TypLong))
    out := build(t, method(st))

    /* one scratch to materialize the address, one to stage stores wider
     * than a vector register */
    require.Equal(t, NodeDemand { Src: 1, Internal: 2 }, out.Demand(st))
}

func TestBuildBlock_InitLoop(t *testing.T) {
    st := initBlk(ir.BlkLoop, 512, lcl(ir.TypByref), lcl(ir.TypLong))
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2, Internal: 1 }, out.Demand(st))
    require.Equal(t, testProf.IntRegs, out.InternalsOf(st)[0].Candidates)
}

func TestBuildBlock_CopyUnroll(t *testing.T) {
    st := copyBlk(ir.BlkUnroll, 24, lcl(ir.TypByref), lcl(ir.TypByref))
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2, Internal: 1 }, out.Demand(st))
    require.Equal(t, arch.EmptySet, out.KillsOf(st)[0].Candidates)
}

func TestBuildBlock_CopyGC(t *testing.T) {
    dst := lcl(ir.TypByref)
    srcAddr := lcl(ir.TypByref)
    st := copyBlk(ir.BlkUnrollGC, 16, dst, srcAddr)
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2, Internal: 2 }, out.Demand(st))

    /* staging scratches must stay clear of the barrier's argument pair */
    for _, r := range out.InternalsOf(st) {
        require.False(t, r.Candidates.Contains(loong64.T6))
        require.False(t, r.Candidates.Contains(loong64.T7))
    }

    /* the helper reads both addresses from its pinned pair */
    dr := out.RefsOf(dst)
    require.Equal(t, loong64.T6.Mask(), dr[len(dr)-1].Candidates)
    sr := out.RefsOf(srcAddr)
    require.Equal(t, loong64.T7.Mask(), sr[len(sr)-1].Candidates)

    kill := out.KillsOf(st)[0].Candidates
    require.Equal(t, testProf.KillSetFor(arch.HelperWriteBarrier), kill)
    require.True(t, kill.Contains(loong64.RA))
}

func TestBuildBlock_CopyGCSmall(t *testing.T) {
    /* below two units per step a single staging register suffices */
    st := copyBlk(ir.BlkUnrollGC, 8, lcl(ir.TypByref), lcl(ir.TypByref))
    out := build(t, method(st))
    require.Equal(t, NodeDemand { Src: 2, Internal: 1 }, out.Demand(st))
}

func TestBuildStoreInd_Plain(t *testing.T) {
    addr := lcl(ir.TypByref)
    data := lcl(ir.TypLong)
    st := &ir.Node { Op: ir.OpStoreInd, Type: ir.TypLong, Op1: addr, Op2: data }
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(st))
    require.Empty(t, out.DefsOf(st))
    require.Empty(t, out.KillsOf(st))
}

func TestBuildStoreInd_WriteBarrier(t *testing.T) {
    addr := lcl(ir.TypByref)
    data := lcl(ir.TypRef)
    st := &ir.Node { Op: ir.OpStoreInd, Type: ir.TypRef, Op1: addr, Op2: data }
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(st))

    ar := out.RefsOf(addr)
    require.Equal(t, loong64.T6.Mask(), ar[len(ar)-1].Candidates)
    dr := out.RefsOf(data)
    require.Equal(t, loong64.T7.Mask(), dr[len(dr)-1].Candidates)

    kk := out.KillsOf(st)
    require.Len(t, kk, 1)
    require.Equal(t, testProf.KillSetFor(arch.HelperWriteBarrier), kk[0].Candidates)
}

func TestBuildStoreInd_NullRefConstant(t *testing.T) {
    /* storing a null constant needs no barrier */
    addr := lcl(ir.TypByref)
    null := &ir.Node { Op: ir.OpCnsInt, Type: ir.TypRef, Val: 0 }
    st := &ir.Node { Op: ir.OpStoreInd, Type: ir.TypRef, Op1: addr, Op2: null }
    out := build(t, method(st))

    require.Equal(t, NodeDemand { Src: 2 }, out.Demand(st))
    require.Empty(t, out.KillsOf(st))
}

func TestBuild_Compare(t *testing.T) {
    eq := &ir.Node {
        Op    : ir.OpEq,
        Type  : ir.TypInt,
        Flags : ir.FlagUnusedValue,
        Op1   : lcl(ir.TypLong),
        Op2   : lcl(ir.TypLong),
    }
    out := build(t, method(eq))
    require.Equal(t, NodeDemand { Src: 2, Dst: 1 }, out.Demand(eq))

    /* compare-and-branch materializes nothing */
    jc := &ir.Node { Op: ir.OpJCmp, Type: ir.TypVoid, Op1: lcl(ir.TypLong), Op2: ccns(0) }
    out = build(t, method(jc))
    require.Equal(t, NodeDemand { Src: 1 }, out.Demand(jc))
    require.Empty(t, out.DefsOf(jc))
}

func TestBuild_Intrinsic(t *testing.T) {
    n := &ir.Node {
        Op     : ir.OpIntrinsic,
        Type   : ir.TypDouble,
        Flags  : ir.FlagUnusedValue,
        Op1    : lcl(ir.TypDouble),
        Intrin : ir.IntrinSqrt,
    }
    out := build(t, method(n))

    require.Equal(t, NodeDemand { Src: 1, Dst: 1 }, out.Demand(n))
    require.Equal(t, arch.ClassFloat, out.DefsOf(n)[0].Interval.Class)
}

func TestBuild_Cast(t *testing.T) {
    n := &ir.Node {
        Op    : ir.OpCast,
        Type  : ir.TypDouble,
        Flags : ir.FlagUnusedValue,
        Op1   : lcl(ir.TypLong),
    }
    out := build(t, method(n))

    require.Equal(t, NodeDemand { Src: 1, Dst: 1 }, out.Demand(n))
    require.Equal(t, arch.ClassFloat, out.DefsOf(n)[0].Interval.Class)
}

func TestBuild_KeepAlive(t *testing.T) {
    v := lcl(ir.TypRef)
    n := &ir.Node { Op: ir.OpKeepAlive, Type: ir.TypVoid, Op1: v }
    out := build(t, method(n))

    require.Equal(t, NodeDemand { Src: 1 }, out.Demand(n))
    require.Empty(t, out.DefsOf(n))
}
