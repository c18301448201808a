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
    `github.com/loongjit/loongjit/internal/ir`
)

// buildHWIntrinsic is the placeholder for the per-intrinsic rule table.
// No hardware intrinsic is implemented on this target yet; the frontend
// must not produce them, so reaching here aborts the method instead of
// emitting demand that would miscompile.
func (self *Builder) buildHWIntrinsic(n *ir.Node, dstCount *int) int {
    nyi(n, self.prof.Name)
    *dstCount = 0
    return 0
}
