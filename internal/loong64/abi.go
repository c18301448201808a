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

package loong64

import (
    `github.com/loongjit/loongjit/internal/arch`
)

const (
    // PageSize is the smallest page granule the stack probe helper assumes.
    PageSize = 0x1000

    // StackAlign is the stack pointer alignment quantum mandated by the ABI.
    StackAlign = 16

    // RegSize is the width of one integer register in bytes.
    RegSize = 8

    // VecRegSize is the width of one LSX vector register in bytes.
    VecRegSize = 16

    // OffsetBits is the width of the signed displacement immediate in the
    // ld / st / addi instruction families (simm12).
    OffsetBits = 12

    // HeapUnrollLimit is the largest stack allocation expanded as straight
    // line stores, four paired-register stores worth of bytes.
    HeapUnrollLimit = RegSize * 2 * 4
)

// ValidSimm12 checks whether v fits the 12-bit signed immediate field.
func ValidSimm12(v int64) bool {
    return v >= -2048 && v < 2048
}

var (
    intArgRegs   = arch.MakeRegSet(A0, A1, A2, A3, A4, A5, A6, A7)
    intTempRegs  = arch.MakeRegSet(T0, T1, T2, T3, T4, T5, T6, T7, T8)
    intSavedRegs = arch.MakeRegSet(S0, S1, S2, S3, S4, S5, S6, S7, S8)
)

var (
    fltTrashRegs = arch.MakeRegSet(
        F0, F1, F2, F3, F4, F5, F6, F7,
        F8, F9, F10, F11, F12, F13, F14, F15,
        F16, F17, F18, F19, F20, F21, F22, F23,
    )
    fltSavedRegs = arch.MakeRegSet(F24, F25, F26, F27, F28, F29, F30, F31)
)

// NewProfile resolves the LoongArch64 rule table. The result is immutable
// and may be shared by any number of concurrent method builds.
func NewProfile() *arch.Profile {
    intTrash := intArgRegs.Union(intTempRegs)
    callKill := intTrash.Union(fltTrashRegs).Union(RA.Mask())

    return &arch.Profile {
        Name           : "loong64",
        IntRegs        : intTrash.Union(intSavedRegs),
        FltRegs        : fltTrashRegs.Union(fltSavedRegs),
        IntCalleeTrash : intTrash,
        FltCalleeTrash : fltTrashRegs,
        IntCalleeSaved : intSavedRegs,
        FltCalleeSaved : fltSavedRegs,
        IntRet         : A0.Mask(),
        LngRet         : A0.Mask(),
        FltRet         : F0.Mask(),

        /* fixed ABI assignments: the exception object arrives in a0, an
         * indirect call stub passes the cell address in t8, an async
         * callee hands its continuation object back in t2, the stack
         * cookie check scratches t0 / t1, and the write barrier helper
         * takes its destination / source byrefs in t6 / t7 */
        ExceptionObject      : A0,
        IndirectCallTarget   : T8,
        AsyncContinuationRet : T2,
        GSCookieTmp          : [2]arch.Reg { T0, T1 },
        WriteBarrierDst      : T6,
        WriteBarrierSrc      : T7,

        OffsetBits      : OffsetBits,
        PageSize        : PageSize,
        StackAlign      : StackAlign,
        RegSize         : RegSize,
        VecRegSize      : VecRegSize,
        HeapUnrollLimit : HeapUnrollLimit,

        CallKill   : callKill,
        HelperKill : map[arch.Helper]arch.RegSet {
            arch.HelperStopForGC    : callKill,
            arch.HelperProfiler     : callKill.Exclude(A0.Mask() | F0.Mask()),
            arch.HelperWriteBarrier : arch.MakeRegSet(T6, T7, RA),
        },
    }
}
