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

package ir

import (
    `testing`

    `github.com/loongjit/loongjit/internal/arch`
    `github.com/stretchr/testify/require`
)

func TestOp_Properties(t *testing.T) {
    require.True(t, OpAdd.HasValue())
    require.True(t, OpCall.HasValue())
    require.True(t, OpLea.HasValue())
    require.False(t, OpStoreInd.HasValue())
    require.False(t, OpReturn.HasValue())
    require.False(t, OpJCmp.HasValue())
    require.True(t, OpJCmp.IsCmp())
    require.True(t, OpEq.IsCmp())
    require.False(t, OpAdd.IsCmp())
}

func TestNode_IsValue(t *testing.T) {
    add := &Node { Op: OpAdd, Type: TypLong }
    req := &Node { Op: OpCall, Type: TypVoid }
    cmp := &Node { Op: OpJCmp, Type: TypVoid }

    require.True(t, add.IsValue())
    require.False(t, req.IsValue())
    require.False(t, cmp.IsValue())
}

func TestNode_RegCount(t *testing.T) {
    one := &Node { Op: OpAdd, Type: TypLong }
    nil0 := &Node { Op: OpStoreInd, Type: TypVoid }
    require.Equal(t, 1, one.RegCount())
    require.Equal(t, 0, nil0.RegCount())

    call := &Node {
        Op      : OpCall,
        Type    : TypStruct,
        Flags   : FlagMultiReg,
        RetRegs : []arch.Reg { arch.IntReg(4), arch.IntReg(5) },
        Call    : &CallInfo { Kind: CallDirect },
    }
    require.Equal(t, 2, call.RegCount())

    /* spilled multi-reg store writes memory, not registers */
    spill := &Node {
        Op    : OpStoreLclVar,
        Type  : TypStruct,
        Flags : FlagMultiReg,
        Op1   : call,
        Lcl   : &LclInfo { Num: 3, FieldCnt: 2 },
    }
    require.Equal(t, 0, spill.RegCount())

    spill.Lcl.Candidate = true
    require.Equal(t, 2, spill.RegCount())
}

func TestNode_InitBlk(t *testing.T) {
    fill := &Node { Op: OpCnsInt, Type: TypLong, Val: 0 }
    init := &Node { Op: OpInitVal, Type: TypLong, Flags: FlagContained, Op1: fill }
    dst := &Node { Op: OpLclAddr, Type: TypByref }

    blk := &Node {
        Op   : OpStoreBlk,
        Type : TypStruct,
        Op1  : dst,
        Op2  : init,
        Blk  : &BlkInfo { Kind: BlkUnroll, Size: 32 },
    }
    require.True(t, blk.IsInitBlk())

    src := &Node { Op: OpInd, Type: TypStruct, Flags: FlagContained }
    blk.Op2 = src
    require.False(t, blk.IsInitBlk())
}

func TestTreeIter_ExecutionOrder(t *testing.T) {
    a := &Node { Op: OpLclVar, Type: TypLong }
    b := &Node { Op: OpLclVar, Type: TypLong }
    add := &Node { Op: OpAdd, Type: TypLong, Op1: a, Op2: b }
    c := &Node { Op: OpCnsInt, Type: TypLong, Val: 8 }
    mul := &Node { Op: OpMul, Type: TypLong, Op1: add, Op2: c }

    order := Linearize(mul)
    require.Equal(t, []*Node { a, b, add, c, mul }, order)
}

func TestTreeIter_CallOperands(t *testing.T) {
    v := &Node { Op: OpLclVar, Type: TypLong }
    arg := &Node { Op: OpPutArgReg, Type: TypLong, Op1: v, ArgReg: arch.IntReg(4) }
    tgt := &Node { Op: OpLclVar, Type: TypLong }

    call := &Node {
        Op   : OpCall,
        Type : TypVoid,
        Call : &CallInfo {
            Kind   : CallIndirect,
            Target : tgt,
            Args   : []*Node { arg },
        },
    }

    order := Linearize(call)
    require.Equal(t, []*Node { v, arg, tgt, call }, order)
}

func TestType_Class(t *testing.T) {
    require.Equal(t, arch.ClassInt, TypLong.Class())
    require.Equal(t, arch.ClassInt, TypRef.Class())
    require.Equal(t, arch.ClassFloat, TypDouble.Class())
    require.Equal(t, arch.ClassFloat, TypSimd12.Class())
    require.Panics(t, func() { _ = TypVoid.Class() })
}
