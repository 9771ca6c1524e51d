package helpers

// Joiner concatenates many strings with a single allocation. The output
// assembler appends every module wrapper and rewritten body to one of these
// and copies everything into place once the final length is known.
type Joiner struct {
	parts  []joinerPart
	length uint32
}

type joinerPart struct {
	data   string
	offset uint32
}

func (j *Joiner) AddString(data string) {
	if len(data) == 0 {
		return
	}
	j.parts = append(j.parts, joinerPart{data, j.length})
	j.length += uint32(len(data))
}

func (j *Joiner) Length() uint32 {
	return j.length
}

func (j *Joiner) Done() []byte {
	buffer := make([]byte, j.length)
	for _, part := range j.parts {
		copy(buffer[part.offset:], part.data)
	}
	return buffer
}
