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

/* buildBlockStore attaches the scratch and pinned register demand of a
 * block initialize or copy, according to the strategy lowering chose. */
func (self *Builder) buildBlockStore(n *ir.Node) int {
    dst := n.Op1
    src := n.Op2
    size := n.Blk.Size

    var srcAddrOrFill *ir.Node
    dstMask := arch.EmptySet
    srcMask := arch.EmptySet

    if n.IsInitBlk() {
        if src.Op == ir.OpInitVal {
            if !src.IsContained() {
                badir(src, "non-contained InitVal")
            }
            src = src.Op1
        }
        srcAddrOrFill = src

        switch n.Blk.Kind {
            case ir.BlkUnroll: {
                /* a folded destination address is materialized by codegen
                 * and may need a register of its own */
                if dst.IsContained() {
                    self.internalIntDef(n)
                }

                /* stores wider than one vector register are only safe
                 * when the destination alignment is statically known */
                if dst.Op == ir.OpLclAddr && size > self.prof.VecRegSize {
                    self.internalIntDef(n)
                }
            }

            case ir.BlkLoop: {
                /* running offset */
                self.internalIntDefCand(n, self.prof.IntRegs)
            }

            default: {
                badir(n, "unexpected init strategy %d", n.Blk.Kind)
            }
        }
    } else {
        if src.Op == ir.OpInd {
            if !src.IsContained() {
                badir(src, "non-contained source indirection")
            }
            srcAddrOrFill = src.Op1
        }

        switch n.Blk.Kind {
            case ir.BlkUnrollGC: {
                /* the staging registers must stay clear of the barrier
                 * helper's fixed argument pair */
                cand := self.prof.IntRegs.Exclude(self.prof.WriteBarrierRegs())
                self.internalIntDefCand(n, cand)

                /* big enough blocks move two units per step */
                if size >= 2 * self.prof.RegSize {
                    self.internalIntDefCand(n, cand)
                }

                /* the helper reads the destination, and the source when
                 * it is materialized, from its pinned register pair */
                dstMask = self.prof.WriteBarrierDst.Mask()
                if srcAddrOrFill != nil {
                    if srcAddrOrFill.IsContained() {
                        badir(srcAddrOrFill, "contained source of a GC block copy")
                    }
                    srcMask = self.prof.WriteBarrierSrc.Mask()
                }
            }

            case ir.BlkUnroll: {
                self.internalIntDef(n)
            }

            default: {
                badir(n, "unexpected copy strategy %d", n.Blk.Kind)
            }
        }
    }

    useCount := 0

    if !dst.IsContained() {
        useCount++
        self.use(dst, dstMask)
    } else if dst.Op == ir.OpLea {
        /* the mode's offset, if any, was charged by the addressing rule;
         * only the base register is consumed here */
        useCount += self.operandUses(dst.Op1, arch.EmptySet)
    }

    if srcAddrOrFill != nil {
        if !srcAddrOrFill.IsContained() {
            useCount++
            self.use(srcAddrOrFill, srcMask)
        } else if srcAddrOrFill.Op == ir.OpLea {
            useCount += self.operandUses(srcAddrOrFill.Op1, arch.EmptySet)
        }
    }

    self.internalUses()
    self.kills(n, self.killSetForBlockStore(n))
    return useCount
}

func (self *Builder) killSetForBlockStore(n *ir.Node) arch.RegSet {
    if n.Blk.Kind == ir.BlkUnrollGC {
        return self.prof.KillSetFor(arch.HelperWriteBarrier)
    } else {
        return arch.EmptySet
    }
}
