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
    `math/bits`
    `strings`
)

// RegSet is a bitmask over the whole register file, one bit per Reg.
// It represents candidate sets, kill sets and class masks alike.
type RegSet uint64

// EmptySet is the candidate set that permits nothing.
const EmptySet RegSet = 0

func MakeRegSet(rr ...Reg) (rs RegSet) {
    for _, r := range rr {
        rs |= r.Mask()
    }
    return
}

func (self RegSet) IsEmpty() bool {
    return self == 0
}

func (self RegSet) Count() int {
    return bits.OnesCount64(uint64(self))
}

func (self RegSet) Contains(r Reg) bool {
    return self & r.Mask() != 0
}

func (self RegSet) Union(rs RegSet) RegSet {
    return self | rs
}

func (self RegSet) Intersect(rs RegSet) RegSet {
    return self & rs
}

func (self RegSet) Exclude(rs RegSet) RegSet {
    return self &^ rs
}

func (self RegSet) Overlaps(rs RegSet) bool {
    return self & rs != 0
}

// Regs expands the mask into registers in ascending index order.
func (self RegSet) Regs() []Reg {
    rr := make([]Reg, 0, self.Count())
    for v := uint64(self); v != 0; v &= v - 1 {
        rr = append(rr, Reg(bits.TrailingZeros64(v)))
    }
    return rr
}

func (self RegSet) String() string {
    nb := self.Count()
    buf := make([]string, 0, nb)

    /* add each register */
    for _, r := range self.Regs() {
        buf = append(buf, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(buf, ", "),
    )
}
