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
    `os`

    `github.com/davecgh/go-spew/spew`
)

const (
    _DebugDemandStream = false
)

// Dump prints the raw demand records for debugging a miscompiled method.
func (self *Stream) Dump() {
    spew.Config.SortKeys = true
    spew.Config.DisablePointerMethods = true
    spew.Fdump(os.Stderr, self.refs)
}
