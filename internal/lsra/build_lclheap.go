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
    `github.com/loongjit/loongjit/internal/arch`
    `github.com/loongjit/loongjit/internal/ir`
)

/* buildLclHeap sizes the scratch demand of a dynamic stack allocation.
 * With C the constant size aligned up to the stack quantum:
 *
 *   Size?                  Init Memory?    # temp regs
 *    0                         -               0
 *    C <= unroll limit         -               0
 *    C <  page size            No              0
 *    C >= page size            No              2
 *    const, any C              Yes             0
 *    non-const                 Yes             0
 *    non-const                 No              2
 *
 * The two registers drive the page-probing loop: one for the remaining
 * count, one as the probe scratch. */
func (self *Builder) buildLclHeap(n *ir.Node) (srcCount int) {
    size := n.Op1

    if size.IsIntCon() {
        if !size.IsContained() {
            badir(size, "non-contained constant allocation size")
        }
        srcCount = 0

        if sizeVal := size.Val; sizeVal != 0 {
            sizeVal = self.prof.AlignStack(sizeVal)

            if sizeVal <= self.prof.HeapUnrollLimit {
                /* small enough to expand as straight line stores */
            } else if !self.mth.InitMem {
                if sizeVal < self.prof.PageSize {
                    /* a single probe suffices, no registers needed */
                } else {
                    self.internalIntDef(n)
                    self.internalIntDef(n)
                }
            }
        }
    } else {
        srcCount = 1
        if !self.mth.InitMem {
            self.internalIntDef(n)
            self.internalIntDef(n)
        }
    }

    if !size.IsContained() {
        self.use(size, arch.EmptySet)
    }
    self.internalUses()
    self.def(n, arch.EmptySet)
    return
}
