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

/* buildCall wires a call site: return value defs pinned to the ABI return
 * slots, the dynamically computed target if there is one, the argument
 * uses placed by lowering, and the callee's clobber set. */
func (self *Builder) buildCall(n *ir.Node) int {
    ci := n.Call
    srcCount := 0
    dstCount := 0
    multiReg := false

    if ci == nil {
        badir(n, "call node without call info")
    }
    if !n.TypeIs(ir.TypVoid) {
        multiReg = n.IsMultiReg()
        if multiReg {
            dstCount = len(n.RetRegs)
        } else {
            dstCount = 1
        }
    }

    ctrl := ci.Target
    ctrlCand := arch.EmptySet

    if ci.Kind == ir.CallIndirect && ctrl == nil {
        badir(n, "indirect call without a target expression")
    }
    if ci.Kind != ir.CallIndirect && ci.Kind != ir.CallDirect && ctrl != nil {
        badir(n, "stub call carries a target expression")
    }

    if ctrl != nil {
        if ctrl.TypeIs(ir.TypVoid) {
            badir(n, "void call target")
        }

        /* a tail call lowered to a jump computes its target after the
         * epilog restored callee saved registers, so the target must live
         * in a call-trashed register, and away from the stack cookie
         * check temporaries when that check runs in the same epilog */
        if ci.FastTail {
            ctrlCand = self.fastTailCallCandidates(n)
        }
    } else if ci.Kind == ir.CallStubIndirect {
        /* the stub cell address arrives in a fixed parameter register and
         * the real target is loaded from it into a scratch */
        cand := arch.EmptySet
        if ci.FastTail {
            cand = self.fastTailCallCandidates(n)
        }
        self.internalIntDefCand(n, cand)
    }

    singleCand := arch.EmptySet
    if !multiReg && dstCount == 1 {
        singleCand = self.retMask(n.Type)
    }

    srcCount += self.buildCallArgUses(n)

    if ctrl != nil {
        self.use(ctrl, ctrlCand)
        srcCount++
    }
    self.internalUses()

    /* the call consumes its placed arguments at its use position, so its
     * own kill does not invalidate them; nothing stays placed past a call
     * boundary either way */
    self.placedArgRegs = arch.EmptySet

    killMask := self.prof.CallKill
    if dstCount > 0 {
        if multiReg {
            self.callDefsWithKills(n, killMask)
        } else {
            self.defWithKills(n, singleCand, killMask)
        }
    } else {
        self.kills(n, killMask)
    }
    return srcCount
}

func (self *Builder) fastTailCallCandidates(n *ir.Node) arch.RegSet {
    cand := self.prof.IntRegs.Intersect(self.prof.IntCalleeTrash)
    if self.mth.GSCookie {
        cand = cand.Exclude(self.prof.GSCookieRegs())
    }
    if cand.IsEmpty() {
        badir(n, "no usable registers for a tail call target")
    }
    return cand
}

/* buildCallArgUses consumes the outgoing arguments lowering already
 * resolved into fixed slots: register arguments are used in their ABI
 * registers, stack arguments were consumed at their PutArgStk node. */
func (self *Builder) buildCallArgUses(n *ir.Node) (srcCount int) {
    for _, a := range n.Call.Args {
        switch a.Op {
            case ir.OpPutArgReg: {
                self.use(a, a.ArgReg.Mask())
                srcCount++
            }

            case ir.OpPutArgStk: {
                /* already placed in the outgoing argument area */
            }

            case ir.OpFieldList: {
                /* an argument split across several registers */
                if !a.IsContained() {
                    badir(a, "non-contained FieldList argument")
                }
                for _, f := range a.Fields {
                    if f.Op != ir.OpPutArgReg {
                        badir(f, "unexpected %s in a split argument", f.Op)
                    }
                    self.use(f, f.ArgReg.Mask())
                    srcCount++
                }
            }

            default: {
                badir(a, "unexpected %s as a call argument", a.Op)
            }
        }
    }
    return
}
