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

package ir

import (
    `github.com/oleiade/lane`
)

// TreeIter walks one expression tree in execution order: operands are
// produced before the nodes that consume them, which is the order the
// allocation engine assigns positions in.
type TreeIter struct {
    n *Node
    s *lane.Stack
    v map[*Node]struct{}
}

func stacknew(v interface{}) (s *lane.Stack) {
    s = lane.NewStack()
    s.Push(v)
    return
}

func NewTreeIter(root *Node) *TreeIter {
    return &TreeIter {
        s: stacknew(root),
        v: make(map[*Node]struct{}),
    }
}

func (self *TreeIter) Next() bool {
    var tail bool
    var this *Node

    /* scan until the stack is empty */
    for !self.s.Empty() {
        tail = true
        this = self.s.Head().(*Node)

        /* push the first unvisited operand */
        for _, p := range this.Operands() {
            if _, ok := self.v[p]; !ok {
                tail = false
                self.v[p] = struct{}{}
                self.s.Push(p)
                break
            }
        }

        /* all the operands are visited, pop the current node */
        if tail {
            self.n = self.s.Pop().(*Node)
            return true
        }
    }

    /* clear the node pointer to indicate the end of iteration */
    self.n = nil
    return false
}

func (self *TreeIter) Node() *Node {
    return self.n
}

func (self *TreeIter) ForEach(action func(n *Node)) {
    for self.Next() {
        action(self.n)
    }
}

// Linearize flattens statement trees into the canonical execution order
// lowering hands to the allocation engine.
func Linearize(roots ...*Node) []*Node {
    var ret []*Node
    for _, n := range roots {
        NewTreeIter(n).ForEach(func(p *Node) {
            ret = append(ret, p)
        })
    }
    return ret
}
