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
    `fmt`

    `github.com/loongjit/loongjit/internal/ir`
)

// UnsupportedError reports an opcode the current target profile has not
// implemented. It is fatal to the compilation of the method.
type UnsupportedError struct {
    Op     ir.Op
    Target string
}

func (self UnsupportedError) Error() string {
    return fmt.Sprintf("lsra: %s is not implemented on %s", self.Op, self.Target)
}

// BadIRError reports a broken invariant: either the lowering contract was
// violated by the input, or the builder itself realized demand that
// disagrees with the node's declared shape. Always a defect, never a
// recoverable condition.
type BadIRError struct {
    Node   *ir.Node
    Reason string
}

func (self BadIRError) Error() string {
    return fmt.Sprintf("lsra: bad IR at %s node: %s", self.Node, self.Reason)
}

func nyi(n *ir.Node, target string) {
    panic(UnsupportedError { Op: n.Op, Target: target })
}

func badir(n *ir.Node, format string, args ...interface{}) {
    panic(BadIRError { Node: n, Reason: fmt.Sprintf(format, args...) })
}
