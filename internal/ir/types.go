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

// Type is the value type of a node after lowering. Small integers have
// already been widened, so the integer kinds left are register-sized.
type Type uint8

const (
    TypVoid Type = iota
    TypInt
    TypLong
    TypRef
    TypByref
    TypFloat
    TypDouble
    TypSimd8
    TypSimd12
    TypSimd16
    TypStruct
)

var typeNames = [...]string {
    TypVoid   : "void",
    TypInt    : "int",
    TypLong   : "long",
    TypRef    : "ref",
    TypByref  : "byref",
    TypFloat  : "float",
    TypDouble : "double",
    TypSimd8  : "simd8",
    TypSimd12 : "simd12",
    TypSimd16 : "simd16",
    TypStruct : "struct",
}

func (self Type) String() string {
    if int(self) < len(typeNames) {
        return typeNames[self]
    } else {
        panic(fmt.Sprintf("ir: invalid type: %d", self))
    }
}

// IsFloating reports whether the type lives in the float register file as
// a scalar.
func (self Type) IsFloating() bool {
    return self == TypFloat || self == TypDouble
}

// IsSIMD reports whether the type lives in the vector register file.
func (self Type) IsSIMD() bool {
    return self == TypSimd8 || self == TypSimd12 || self == TypSimd16
}

// IsGC reports whether values of this type are tracked by the garbage
// collector.
func (self Type) IsGC() bool {
    return self == TypRef || self == TypByref
}

// Class maps the type onto the register class that holds it.
func (self Type) Class() arch.RegClass {
    switch self {
        case TypVoid   : panic("ir: void type has no register class")
        case TypStruct : panic("ir: struct type has no single register class")
        default: {
            if self.IsFloating() || self.IsSIMD() {
                return arch.ClassFloat
            } else {
                return arch.ClassInt
            }
        }
    }
}
