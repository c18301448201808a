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

// LoongArch64 integer register file, in hardware numbering order.
var (
    ZERO = arch.IntReg(0)
    RA   = arch.IntReg(1)
    TP   = arch.IntReg(2)
    SP   = arch.IntReg(3)
    A0   = arch.IntReg(4)
    A1   = arch.IntReg(5)
    A2   = arch.IntReg(6)
    A3   = arch.IntReg(7)
    A4   = arch.IntReg(8)
    A5   = arch.IntReg(9)
    A6   = arch.IntReg(10)
    A7   = arch.IntReg(11)
    T0   = arch.IntReg(12)
    T1   = arch.IntReg(13)
    T2   = arch.IntReg(14)
    T3   = arch.IntReg(15)
    T4   = arch.IntReg(16)
    T5   = arch.IntReg(17)
    T6   = arch.IntReg(18)
    T7   = arch.IntReg(19)
    T8   = arch.IntReg(20)
    X0   = arch.IntReg(21)
    FP   = arch.IntReg(22)
    S0   = arch.IntReg(23)
    S1   = arch.IntReg(24)
    S2   = arch.IntReg(25)
    S3   = arch.IntReg(26)
    S4   = arch.IntReg(27)
    S5   = arch.IntReg(28)
    S6   = arch.IntReg(29)
    S7   = arch.IntReg(30)
    S8   = arch.IntReg(31)
)

// Floating point / LSX vector register file. F0 through F7 double as the
// floating argument and return registers, F24 through F31 are callee-saved.
var (
    F0  = arch.FloatReg(0)
    F1  = arch.FloatReg(1)
    F2  = arch.FloatReg(2)
    F3  = arch.FloatReg(3)
    F4  = arch.FloatReg(4)
    F5  = arch.FloatReg(5)
    F6  = arch.FloatReg(6)
    F7  = arch.FloatReg(7)
    F8  = arch.FloatReg(8)
    F9  = arch.FloatReg(9)
    F10 = arch.FloatReg(10)
    F11 = arch.FloatReg(11)
    F12 = arch.FloatReg(12)
    F13 = arch.FloatReg(13)
    F14 = arch.FloatReg(14)
    F15 = arch.FloatReg(15)
    F16 = arch.FloatReg(16)
    F17 = arch.FloatReg(17)
    F18 = arch.FloatReg(18)
    F19 = arch.FloatReg(19)
    F20 = arch.FloatReg(20)
    F21 = arch.FloatReg(21)
    F22 = arch.FloatReg(22)
    F23 = arch.FloatReg(23)
    F24 = arch.FloatReg(24)
    F25 = arch.FloatReg(25)
    F26 = arch.FloatReg(26)
    F27 = arch.FloatReg(27)
    F28 = arch.FloatReg(28)
    F29 = arch.FloatReg(29)
    F30 = arch.FloatReg(30)
    F31 = arch.FloatReg(31)
)

var regNames = map[arch.Reg]string {
    ZERO : "zero",
    RA   : "ra",
    TP   : "tp",
    SP   : "sp",
    A0   : "a0",
    A1   : "a1",
    A2   : "a2",
    A3   : "a3",
    A4   : "a4",
    A5   : "a5",
    A6   : "a6",
    A7   : "a7",
    T0   : "t0",
    T1   : "t1",
    T2   : "t2",
    T3   : "t3",
    T4   : "t4",
    T5   : "t5",
    T6   : "t6",
    T7   : "t7",
    T8   : "t8",
    X0   : "x0",
    FP   : "fp",
    S0   : "s0",
    S1   : "s1",
    S2   : "s2",
    S3   : "s3",
    S4   : "s4",
    S5   : "s5",
    S6   : "s6",
    S7   : "s7",
    S8   : "s8",
}

// RegName returns the ABI mnemonic of a register for diagnostics.
func RegName(r arch.Reg) string {
    if n, ok := regNames[r]; ok {
        return n
    } else {
        return r.String()
    }
}
