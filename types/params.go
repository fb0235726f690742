/*
 * Copyright 2025 tomoncle.
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

package types

// Param is a single named binding.
type Param struct {
	Name  string
	Value Value
}

// Params is the ordered parameter map that accompanies a SQL text. Names keep
// their insertion order, which is the order parameters are handed to a command.
type Params struct {
	items []Param
	index map[string]int
}

// NewParams returns an empty parameter map.
func NewParams() *Params {
	return &Params{index: make(map[string]int)}
}

// Add binds name to v. A name may only be bound once.
func (p *Params) Add(name string, v Value) error {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if _, ok := p.index[name]; ok {
		return &DuplicateParameterError{Name: name}
	}
	p.index[name] = len(p.items)
	p.items = append(p.items, Param{Name: name, Value: v})
	return nil
}

func (p *Params) Get(name string) (Value, bool) {
	if p == nil {
		return Null, false
	}
	i, ok := p.index[name]
	if !ok {
		return Null, false
	}
	return p.items[i].Value, true
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Names returns the bound names in insertion order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.items))
	for i, item := range p.items {
		names[i] = item.Name
	}
	return names
}

// All returns a copy of the bindings in insertion order.
func (p *Params) All() []Param {
	if p == nil {
		return nil
	}
	result := make([]Param, len(p.items))
	copy(result, p.items)
	return result
}
