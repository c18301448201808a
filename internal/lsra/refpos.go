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
    `fmt`

    `github.com/loongjit/loongjit/internal/arch`
    `github.com/loongjit/loongjit/internal/ir`
)

// RefKind is the kind of one positioned register reference.
type RefKind uint8

const (
    RefUse RefKind = iota
    RefDef
    RefKill
)

func (self RefKind) String() string {
    switch self {
        case RefUse  : return "use"
        case RefDef  : return "def"
        case RefKill : return "kill"
        default      : panic(fmt.Sprintf("lsra: invalid ref kind: %d", self))
    }
}

// RefPosition is one point where a register is defined, used or killed.
// Once appended to the stream it is never mutated by this pass.
type RefPosition struct {
    Seq  int
    Pos  int
    Kind RefKind
    Node *ir.Node

    // Interval is the value this reference belongs to, nil for kills.
    Interval *Interval

    // Candidates is the register mask legal at this reference. For kills
    // it is the set of registers whose contents are destroyed.
    Candidates arch.RegSet

    // RegIdx is the result slot for multi-register defs and uses.
    RegIdx int

    // PlacedArgs is the subset of a kill's registers that held arguments
    // already placed for an upcoming call. Those placements are dead; the
    // arguments must be placed again before the call is reached.
    PlacedArgs arch.RegSet

    // DelayFree keeps the register live one step past its natural use
    // because an overlapping internal register is still busy.
    DelayFree bool

    // Internal marks references of internal scratch intervals. They do
    // not count towards a node's source or destination counts.
    Internal bool
}

func (self *RefPosition) String() string {
    s := fmt.Sprintf("@%d %s %s", self.Pos, self.Kind, self.Candidates)
    if self.Interval != nil {
        s += " " + self.Interval.String()
    }
    if self.DelayFree {
        s += " delay"
    }
    if !self.PlacedArgs.IsEmpty() {
        s += " placed" + self.PlacedArgs.String()
    }
    if self.Internal {
        s += " internal"
    }
    if self.Node != nil {
        s += " ; " + self.Node.String()
    }
    return s
}
