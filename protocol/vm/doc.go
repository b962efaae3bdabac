/*
Package vm implements the stack machine that runs compiled contracts.

A program is a flat byte string of instructions. Values on the
evaluation stack are Items: integers, byte arrays, booleans, arrays,
structs, maps and opaque interop handles supplied by the host.
Besides the evaluation stack the machine has an alt stack, used by
compiled code to hold local variable frames, and an invocation stack
of return addresses for CALL and RET.

Jump and call operands are two-byte little-endian signed offsets
relative to the start of the jumping instruction. SYSCALL carries a
length-prefixed ASCII name which is resolved through SysCalls; the
table fixes how many items each syscall pops and pushes, and a Host
supplies the behavior.
*/
package vm
