package arch

// AccountMeta represents the account information required
// for building instructions.
type AccountMeta struct {
	Pubkey     Pubkey `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{
		Pubkey:     pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{
		Pubkey:     pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// Instruction represents a single operation against a program.
//
// The order of Accounts is significant: programs address accounts by index,
// so it must match the order the program expects.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program Pubkey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		ProgramID: program,
		Data:      data,
		Accounts:  accounts,
	}
}
