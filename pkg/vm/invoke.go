package vm

// Invoker is the host's cross-program invocation primitive. A nested call
// commits or aborts atomically with the outer call; an error return from
// either method must abort the outer instruction.
type Invoker interface {
	// Invoke executes instr with the signer set inherited from the
	// current call.
	Invoke(instr Instruction, accounts []*AccountInfo) error

	// InvokeSigned executes instr extending the signer set with program
	// derived addresses: each entry of signerSeeds is the seed tuple of
	// one derived address the calling program vouches for.
	InvokeSigned(instr Instruction, accounts []*AccountInfo, signerSeeds [][][]byte) error
}
