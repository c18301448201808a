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
    `fmt`
)

// Op is the opcode of one lowered IR node. The set is closed: the register
// demand builder dispatches over every member and treats an unknown value
// as a lowering defect.
type Op uint8

const (
    OpNop Op = iota
    OpNoOp
    OpStartNonGC
    OpStartPreemptGC
    OpProfHook
    OpLclVar
    OpLclFld
    OpLclAddr
    OpStoreLclVar
    OpStoreLclFld
    OpFieldList
    OpCnsInt
    OpCnsDbl
    OpBox
    OpComma
    OpQMark
    OpColon
    OpReturn
    OpRetFilter
    OpKeepAlive
    OpJTrue
    OpJmp
    OpJmpTable
    OpSwitch
    OpSwitchTable
    OpAdd
    OpSub
    OpMul
    OpMulHi
    OpDiv
    OpUDiv
    OpMod
    OpUMod
    OpAnd
    OpAndNot
    OpOr
    OpXor
    OpLsh
    OpRsh
    OpRsz
    OpRor
    OpNeg
    OpNot
    OpReturnTrap
    OpIntrinsic
    OpHWIntrinsic
    OpCast
    OpEq
    OpNe
    OpLt
    OpLe
    OpGe
    OpGt
    OpJCmp
    OpCkFinite
    OpCmpXchg
    OpXAdd
    OpXOrr
    OpXAnd
    OpXChg
    OpLockAdd
    OpPutArgReg
    OpPutArgStk
    OpCall
    OpBlk
    OpStoreBlk
    OpInitVal
    OpLclHeap
    OpBoundsCheck
    OpArrElem
    OpLea
    OpInd
    OpStoreInd
    OpNullCheck
    OpCatchArg
    OpAsyncContinuation
    OpIndexAddr
    OpCount
)

var opNames = [...]string {
    OpNop               : "Nop",
    OpNoOp              : "NoOp",
    OpStartNonGC        : "StartNonGC",
    OpStartPreemptGC    : "StartPreemptGC",
    OpProfHook          : "ProfHook",
    OpLclVar            : "LclVar",
    OpLclFld            : "LclFld",
    OpLclAddr           : "LclAddr",
    OpStoreLclVar       : "StoreLclVar",
    OpStoreLclFld       : "StoreLclFld",
    OpFieldList         : "FieldList",
    OpCnsInt            : "CnsInt",
    OpCnsDbl            : "CnsDbl",
    OpBox               : "Box",
    OpComma             : "Comma",
    OpQMark             : "QMark",
    OpColon             : "Colon",
    OpReturn            : "Return",
    OpRetFilter         : "RetFilter",
    OpKeepAlive         : "KeepAlive",
    OpJTrue             : "JTrue",
    OpJmp               : "Jmp",
    OpJmpTable          : "JmpTable",
    OpSwitch            : "Switch",
    OpSwitchTable       : "SwitchTable",
    OpAdd               : "Add",
    OpSub               : "Sub",
    OpMul               : "Mul",
    OpMulHi             : "MulHi",
    OpDiv               : "Div",
    OpUDiv              : "UDiv",
    OpMod               : "Mod",
    OpUMod              : "UMod",
    OpAnd               : "And",
    OpAndNot            : "AndNot",
    OpOr                : "Or",
    OpXor               : "Xor",
    OpLsh               : "Lsh",
    OpRsh               : "Rsh",
    OpRsz               : "Rsz",
    OpRor               : "Ror",
    OpNeg               : "Neg",
    OpNot               : "Not",
    OpReturnTrap        : "ReturnTrap",
    OpIntrinsic         : "Intrinsic",
    OpHWIntrinsic       : "HWIntrinsic",
    OpCast              : "Cast",
    OpEq                : "Eq",
    OpNe                : "Ne",
    OpLt                : "Lt",
    OpLe                : "Le",
    OpGe                : "Ge",
    OpGt                : "Gt",
    OpJCmp              : "JCmp",
    OpCkFinite          : "CkFinite",
    OpCmpXchg           : "CmpXchg",
    OpXAdd              : "XAdd",
    OpXOrr              : "XOrr",
    OpXAnd              : "XAnd",
    OpXChg              : "XChg",
    OpLockAdd           : "LockAdd",
    OpPutArgReg         : "PutArgReg",
    OpPutArgStk         : "PutArgStk",
    OpCall              : "Call",
    OpBlk               : "Blk",
    OpStoreBlk          : "StoreBlk",
    OpInitVal           : "InitVal",
    OpLclHeap           : "LclHeap",
    OpBoundsCheck       : "BoundsCheck",
    OpArrElem           : "ArrElem",
    OpLea               : "Lea",
    OpInd               : "Ind",
    OpStoreInd          : "StoreInd",
    OpNullCheck         : "NullCheck",
    OpCatchArg          : "CatchArg",
    OpAsyncContinuation : "AsyncContinuation",
    OpIndexAddr         : "IndexAddr",
}

func (self Op) String() string {
    if int(self) < len(opNames) && opNames[self] != "" {
        return opNames[self]
    } else {
        panic(fmt.Sprintf("ir: invalid opcode: %d", self))
    }
}

const (
    _P_value = 1 << iota    // the opcode may produce a register value
    _P_cmp                  // the opcode is a comparison
)

var opProps = [OpCount]uint8 {
    OpLclVar            : _P_value,
    OpLclFld            : _P_value,
    OpLclAddr           : _P_value,
    OpFieldList         : _P_value,
    OpCnsInt            : _P_value,
    OpCnsDbl            : _P_value,
    OpBox               : _P_value,
    OpComma             : _P_value,
    OpQMark             : _P_value,
    OpColon             : _P_value,
    OpJmpTable          : _P_value,
    OpAdd               : _P_value,
    OpSub               : _P_value,
    OpMul               : _P_value,
    OpMulHi             : _P_value,
    OpDiv               : _P_value,
    OpUDiv              : _P_value,
    OpMod               : _P_value,
    OpUMod              : _P_value,
    OpAnd               : _P_value,
    OpAndNot            : _P_value,
    OpOr                : _P_value,
    OpXor               : _P_value,
    OpLsh               : _P_value,
    OpRsh               : _P_value,
    OpRsz               : _P_value,
    OpRor               : _P_value,
    OpNeg               : _P_value,
    OpNot               : _P_value,
    OpIntrinsic         : _P_value,
    OpHWIntrinsic       : _P_value,
    OpCast              : _P_value,
    OpEq                : _P_value | _P_cmp,
    OpNe                : _P_value | _P_cmp,
    OpLt                : _P_value | _P_cmp,
    OpLe                : _P_value | _P_cmp,
    OpGe                : _P_value | _P_cmp,
    OpGt                : _P_value | _P_cmp,
    OpJCmp              : _P_cmp,
    OpCkFinite          : _P_value,
    OpCmpXchg           : _P_value,
    OpXAdd              : _P_value,
    OpXOrr              : _P_value,
    OpXAnd              : _P_value,
    OpXChg              : _P_value,
    OpPutArgReg         : _P_value,
    OpCall              : _P_value,
    OpBlk               : _P_value,
    OpInitVal           : _P_value,
    OpLclHeap           : _P_value,
    OpLea               : _P_value,
    OpInd               : _P_value,
    OpCatchArg          : _P_value,
    OpAsyncContinuation : _P_value,
    OpIndexAddr         : _P_value,
}

// HasValue reports whether nodes of this opcode can produce a register
// value at all. Whether a particular node actually does also depends on
// its type, see Node.IsValue.
func (self Op) HasValue() bool {
    return opProps[self] & _P_value != 0
}

// IsCmp reports whether the opcode is a comparison or compare-and-branch.
func (self Op) IsCmp() bool {
    return opProps[self] & _P_cmp != 0
}
