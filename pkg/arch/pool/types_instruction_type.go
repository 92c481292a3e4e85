package pool

type InstructionType uint8

const (
	InstructionTypeCreatePool InstructionType = iota
)

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}

// PrependDiscriminant returns a new slice holding the instruction type
// followed by payload. payload is not modified.
func PrependDiscriminant(payload []byte, v InstructionType) []byte {
	data := make([]byte, 1+len(payload))

	var offset int
	putInstructionType(data, v, &offset)
	copy(data[offset:], payload)

	return data
}
