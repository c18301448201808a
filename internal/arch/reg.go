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

// Reg is the index of one physical register in a 64-entry register file.
// Indices 0 through 31 name the integer registers, 32 through 63 the
// floating point / vector registers.
type Reg uint8

const (
    _R_float = 32
    _R_count = 64
)

// RegClass tags which register file a value lives in.
type RegClass uint8

const (
    ClassInt RegClass = iota
    ClassFloat
)

func (self RegClass) String() string {
    switch self {
        case ClassInt   : return "int"
        case ClassFloat : return "float"
        default         : panic(fmt.Sprintf("arch: invalid register class: %d", self))
    }
}

// IntReg returns the i'th integer register.
func IntReg(i int) Reg {
    if i < 0 || i >= _R_float {
        panic(fmt.Sprintf("arch: invalid integer register index: %d", i))
    } else {
        return Reg(i)
    }
}

// FloatReg returns the i'th floating point register.
func FloatReg(i int) Reg {
    if i < 0 || i >= _R_float {
        panic(fmt.Sprintf("arch: invalid float register index: %d", i))
    } else {
        return Reg(_R_float + i)
    }
}

func (self Reg) Class() RegClass {
    if self < _R_float {
        return ClassInt
    } else {
        return ClassFloat
    }
}

func (self Reg) Index() int {
    if self < _R_float {
        return int(self)
    } else {
        return int(self - _R_float)
    }
}

func (self Reg) Mask() RegSet {
    return RegSet(1) << self
}

func (self Reg) String() string {
    if self < _R_float {
        return fmt.Sprintf("i%d", self)
    } else {
        return fmt.Sprintf("f%d", self - _R_float)
    }
}
