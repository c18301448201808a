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

/* buildPutArgStk writes one outgoing argument into the stack argument
 * area. Struct arguments either spread their enumerated fields, one use
 * each, or move as one block through a two-register load / store loop. */
func (self *Builder) buildPutArgStk(n *ir.Node) (srcCount int) {
    child := n.Op1

    if child.TypeIs(ir.TypStruct) || child.Op == ir.OpFieldList {
        if child.Op == ir.OpFieldList {
            if !child.IsContained() {
                badir(child, "non-contained FieldList under PutArgStk")
            }

            /* every enumerated field is consumed individually */
            for _, u := range child.Fields {
                self.use(u, arch.EmptySet)
                srcCount++
            }
        } else {
            /* block move of an in-memory struct: one register to stage
             * each unit, one for the running address */
            self.internalIntDef(n)
            self.internalIntDef(n)

            if child.Op == ir.OpBlk {
                if !child.IsContained() {
                    badir(child, "non-contained block under PutArgStk")
                }

                obj := child.Op1
                if obj.IsLclVarAddr() {
                    /* the whole move folds into one contained operation
                     * with no source registers */
                    if !obj.IsContained() {
                        badir(obj, "local address not contained")
                    }
                } else {
                    srcCount = self.operandUses(obj, arch.EmptySet)
                }
            } else if child.Op != ir.OpLclVar {
                badir(child, "unexpected %s as a struct stack argument", child.Op)
            }
        }
    } else {
        if child.IsContained() {
            badir(child, "contained scalar stack argument")
        }
        srcCount = self.operandUses(child, arch.EmptySet)
    }

    self.internalUses()
    return
}
