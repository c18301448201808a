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

package arch

import (
    `fmt`
)

// Helper identifies a runtime helper routine whose call clobbers a fixed,
// per-target set of registers.
type Helper uint8

const (
    HelperStopForGC Helper = iota
    HelperProfiler
    HelperWriteBarrier
)

func (self Helper) String() string {
    switch self {
        case HelperStopForGC    : return "stop_for_gc"
        case HelperProfiler     : return "profiler"
        case HelperWriteBarrier : return "write_barrier"
        default                 : panic(fmt.Sprintf("arch: invalid helper: %d", self))
    }
}

// Profile is the immutable rule table of one target architecture: register
// classes, ABI register assignments, encoding limits and helper kill sets.
// It is resolved once per target and shared read-only by every method build.
type Profile struct {
    Name string

    /* allocatable register files */
    IntRegs RegSet
    FltRegs RegSet

    /* ABI register classes */
    IntCalleeTrash RegSet
    FltCalleeTrash RegSet
    IntCalleeSaved RegSet
    FltCalleeSaved RegSet

    /* return registers by kind */
    IntRet RegSet
    LngRet RegSet
    FltRet RegSet

    /* pinned single-register assignments */
    ExceptionObject      Reg
    IndirectCallTarget   Reg
    AsyncContinuationRet Reg
    GSCookieTmp          [2]Reg
    WriteBarrierDst      Reg
    WriteBarrierSrc      Reg

    /* encoding and layout limits */
    OffsetBits      uint
    PageSize        int64
    StackAlign      int64
    RegSize         int64
    VecRegSize      int64
    HeapUnrollLimit int64

    /* kill sets */
    CallKill   RegSet
    HelperKill map[Helper]RegSet
}

// AllRegs returns the allocatable registers of one register class.
func (self *Profile) AllRegs(cc RegClass) RegSet {
    switch cc {
        case ClassInt   : return self.IntRegs
        case ClassFloat : return self.FltRegs
        default         : panic(fmt.Sprintf("arch: invalid register class: %d", cc))
    }
}

// ValidOffset checks whether off fits the signed immediate displacement
// field of a load / store / add instruction.
func (self *Profile) ValidOffset(off int64) bool {
    lim := int64(1) << (self.OffsetBits - 1)
    return off >= -lim && off < lim
}

// AlignStack rounds size up to the stack alignment quantum.
func (self *Profile) AlignStack(size int64) int64 {
    return (size + self.StackAlign - 1) &^ (self.StackAlign - 1)
}

// KillSetFor returns the clobber set of one helper call.
func (self *Profile) KillSetFor(h Helper) RegSet {
    if rs, ok := self.HelperKill[h]; ok {
        return rs
    } else {
        panic(fmt.Sprintf("arch: no kill set for helper %s on %s", h, self.Name))
    }
}

// WriteBarrierRegs returns the register pair the write barrier helper
// expects its destination and source addresses in.
func (self *Profile) WriteBarrierRegs() RegSet {
    return self.WriteBarrierDst.Mask() | self.WriteBarrierSrc.Mask()
}

// GSCookieRegs returns the mask of both stack cookie check temporaries.
func (self *Profile) GSCookieRegs() RegSet {
    return self.GSCookieTmp[0].Mask() | self.GSCookieTmp[1].Mask()
}
