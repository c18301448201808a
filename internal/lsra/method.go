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

// Run builds the demand stream for the whole method, visiting the lowered
// code in execution order, one node at a time. Contained nodes build
// nothing themselves; their demand was charged to their consumers.
func (self *Builder) Run() (out *Stream, err error) {
    defer func() {
        if r := recover(); r != nil {
            switch e := r.(type) {
                case UnsupportedError : err = e
                case BadIRError       : err = e
                default               : panic(r)
            }
        }
    }()

    for _, n := range self.mth.Code {
        if !n.IsContained() {
            self.out.advance()
            self.BuildNode(n)
        }
    }

    /* dump the raw records when chasing a demand bug */
    if _DebugDemandStream {
        self.out.Dump()
    }
    return self.out, nil
}

// BuildMethod runs the register demand annotation pass over one lowered
// method body against the given architecture profile.
func BuildMethod(prof *arch.Profile, mth *ir.Method) (*Stream, error) {
    return NewBuilder(prof, mth).Run()
}
