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

    `github.com/loongjit/loongjit/internal/arch`
)

// Interval is one value's lifetime as the allocation engine sees it: a
// register class plus the positioned references that mention the value.
type Interval struct {
    Id    int
    Class arch.RegClass

    // IsConstant marks a value rematerializable from an immediate, which
    // the engine may re-load instead of spilling.
    IsConstant bool

    // IsInternal marks a scratch interval that exists only inside one
    // node's code generation.
    IsInternal bool
}

func (self *Interval) String() string {
    t := ""
    if self.IsConstant {
        t += " const"
    }
    if self.IsInternal {
        t += " internal"
    }
    return fmt.Sprintf("I%d<%s%s>", self.Id, self.Class, t)
}
