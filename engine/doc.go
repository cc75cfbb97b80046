// Package engine provides the goja-backed adapter for the jsbridge layer.
//
// New builds an interpreter, wires it into a jsbridge.Context, and returns
// both. All script values a handle can refer to are pinned in a
// generation-checked cell table, so released handles fail loudly instead
// of aliasing. The Engine value is only needed for engine-level controls
// such as Interrupt; everything else goes through the Context.
package engine
