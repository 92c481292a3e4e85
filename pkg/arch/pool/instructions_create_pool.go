package pool

import (
	"github.com/bqpools/pool-client/pkg/arch"
)

const (
	CreatePoolInstructionArgsSize = PoolDescriptorSize
)

type CreatePoolInstructionArgs struct {
	Descriptor PoolDescriptor
}

type CreatePoolInstructionAccounts struct {
	// Program is the deployed pool program the instruction targets.
	Program arch.Pubkey

	Signer arch.Pubkey
	Pool   arch.Pubkey
}

// NewCreatePoolInstruction returns the create_pool instruction. The program
// indexes accounts positionally: the signer must be first and the pool
// account second.
func NewCreatePoolInstruction(
	accounts *CreatePoolInstructionAccounts,
	args *CreatePoolInstructionArgs,
) arch.Instruction {
	return arch.Instruction{
		ProgramID: accounts.Program,

		// Instruction args
		Data: PrependDiscriminant(args.Descriptor.Marshal(), InstructionTypeCreatePool),

		// Instruction accounts
		Accounts: []arch.AccountMeta{
			{
				Pubkey:     accounts.Signer,
				IsSigner:   true,
				IsWritable: false,
			},
			{
				Pubkey:     accounts.Pool,
				IsSigner:   false,
				IsWritable: true,
			},
		},
	}
}

// ParseCreatePoolInstructionData decodes the data of a create_pool
// instruction.
func ParseCreatePoolInstructionData(data []byte) (*CreatePoolInstructionArgs, error) {
	if len(data) != 1+CreatePoolInstructionArgsSize || InstructionType(data[0]) != InstructionTypeCreatePool {
		return nil, ErrInvalidInstructionData
	}

	var args CreatePoolInstructionArgs
	if err := args.Descriptor.Unmarshal(data[1:]); err != nil {
		return nil, err
	}
	return &args, nil
}
