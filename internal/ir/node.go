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

    `github.com/loongjit/loongjit/internal/arch`
)

// Flags are per-node bits set by lowering. The register demand builder
// only reads them.
type Flags uint16

const (
    // FlagContained marks a node whose computation is folded into the
    // consuming node's instruction, so it emits nothing by itself.
    FlagContained Flags = 1 << iota

    // FlagUnusedValue marks a value whose result is never consumed.
    FlagUnusedValue

    // FlagMultiReg marks a node whose result occupies several registers.
    FlagMultiReg

    // FlagOverflow marks an arithmetic node with an overflow check.
    FlagOverflow

    // FlagUnsigned marks unsigned arithmetic or comparison semantics.
    FlagUnsigned
)

// Intrinsic selects one of the math intrinsics lowering keeps as a single
// node on this target.
type Intrinsic uint8

const (
    IntrinAbs Intrinsic = iota
    IntrinCeiling
    IntrinFloor
    IntrinRound
    IntrinSqrt
)

func (self Intrinsic) String() string {
    switch self {
        case IntrinAbs     : return "abs"
        case IntrinCeiling : return "ceiling"
        case IntrinFloor   : return "floor"
        case IntrinRound   : return "round"
        case IntrinSqrt    : return "sqrt"
        default            : panic(fmt.Sprintf("ir: invalid intrinsic: %d", self))
    }
}

// CallKind distinguishes how the call target is resolved.
type CallKind uint8

const (
    // CallDirect calls a known address, no target computation.
    CallDirect CallKind = iota

    // CallIndirect computes the target dynamically, Target holds it.
    CallIndirect

    // CallStubIndirect loads the target out of an indirection cell whose
    // address arrives in a fixed ABI parameter register.
    CallStubIndirect
)

// CallInfo is the call-specific payload of an OpCall node.
type CallInfo struct {
    Kind     CallKind
    FastTail bool
    Target   *Node
    Args     []*Node
}

// BlkKind selects the code generation strategy lowering chose for a block
// initialize or copy.
type BlkKind uint8

const (
    // BlkUnroll expands the operation into straight line loads / stores.
    BlkUnroll BlkKind = iota

    // BlkLoop emits a copy / fill loop driven by a running offset.
    BlkLoop

    // BlkUnrollGC unrolls a copy of GC-tracked memory through the write
    // barrier helper protocol.
    BlkUnrollGC
)

// BlkInfo is the payload of OpStoreBlk nodes.
type BlkInfo struct {
    Kind BlkKind
    Size int64
}

// LclInfo is the payload of local variable nodes.
type LclInfo struct {
    Num       int
    FieldCnt  int
    Candidate bool
}

// Node is one lowered IR operation. Operand pointers are nil when absent;
// the payload pointers are nil unless the opcode uses them.
type Node struct {
    Op    Op
    Type  Type
    Flags Flags

    /* primary operands: unary / binary operators use Op1 / Op2, address
     * modes use them as base / index, indirections as address / value */
    Op1 *Node
    Op2 *Node

    /* immediate payloads */
    Off  int64
    Val  int64
    FVal float64

    /* opcode-specific payloads */
    Lcl     *LclInfo
    Call    *CallInfo
    Blk     *BlkInfo
    Fields  []*Node
    RetRegs []arch.Reg
    ArgReg  arch.Reg
    Intrin  Intrinsic
}

// Method is one method body in canonical lowered form, the unit this pass
// processes. Code is the linear execution order fixed by lowering.
type Method struct {
    Code     []*Node
    InitMem  bool
    GSCookie bool
}

func (self *Node) String() string {
    if self.Type == TypVoid {
        return self.Op.String()
    } else {
        return fmt.Sprintf("%s.%s", self.Op, self.Type)
    }
}

func (self *Node) OperIs(ops ...Op) bool {
    for _, op := range ops {
        if self.Op == op {
            return true
        }
    }
    return false
}

func (self *Node) TypeIs(tt ...Type) bool {
    for _, t := range tt {
        if self.Type == t {
            return true
        }
    }
    return false
}

// IsValue reports whether this node produces a usable register result.
func (self *Node) IsValue() bool {
    return self.Op.HasValue() && self.Type != TypVoid && self.Type != TypStruct
}

func (self *Node) IsContained() bool {
    return self.Flags & FlagContained != 0
}

func (self *Node) IsUnusedValue() bool {
    return self.Flags & FlagUnusedValue != 0
}

func (self *Node) IsMultiReg() bool {
    return self.Flags & FlagMultiReg != 0
}

func (self *Node) IsOverflow() bool {
    return self.Flags & FlagOverflow != 0
}

// IsIntCon reports whether the node is an integer constant.
func (self *Node) IsIntCon() bool {
    return self.Op == OpCnsInt
}

// IsLclVarAddr reports whether the node computes the address of a whole
// stack local, which codegen can always fold.
func (self *Node) IsLclVarAddr() bool {
    return self.Op == OpLclAddr && self.Off == 0
}

// IsInitBlk reports whether a block store initializes (rather than copies)
// its destination.
func (self *Node) IsInitBlk() bool {
    if self.Op != OpStoreBlk {
        return false
    } else {
        return self.Op2.Op == OpInitVal || self.Op2.IsIntCon()
    }
}

// RegCount is the number of registers this node's result occupies. A
// multi-register store to a non-candidate local writes memory, not
// registers, so it counts zero.
func (self *Node) RegCount() int {
    switch {
        case self.Op == OpStoreLclVar && self.IsMultiReg(): {
            if self.Lcl != nil && self.Lcl.Candidate {
                return self.Lcl.FieldCnt
            }
            return 0
        }

        case !self.IsValue() && !self.IsMultiReg() : return 0
        case !self.IsMultiReg()                    : return 1
        case self.Op == OpCall                     : return len(self.RetRegs)
        default                                    : panic(fmt.Sprintf("ir: multi-reg %s node has no register shape", self.Op))
    }
}

// Operands returns the node's direct operands in evaluation order.
func (self *Node) Operands() []*Node {
    switch self.Op {
        case OpFieldList: {
            return self.Fields
        }

        case OpCall: {
            ops := make([]*Node, 0, len(self.Call.Args) + 1)
            ops = append(ops, self.Call.Args...)
            if self.Call.Target != nil {
                ops = append(ops, self.Call.Target)
            }
            return ops
        }

        default: {
            switch {
                case self.Op1 == nil && self.Op2 == nil : return nil
                case self.Op2 == nil                    : return []*Node { self.Op1 }
                case self.Op1 == nil                    : return []*Node { self.Op2 }
                default                                 : return []*Node { self.Op1, self.Op2 }
            }
        }
    }
}
