package buffer

// Registers are 26 named byte stores, a through z, owned by the document.

// Register returns the contents of the register named letter.
func (d *Document) Register(letter byte) (string, error) {
	slot, ok := letterSlot(letter)
	if !ok {
		return "", ErrInvalidLetter
	}
	return string(d.registers[slot]), nil
}

// RegisterSet replaces the contents of a register.
func (d *Document) RegisterSet(letter byte, data string) error {
	slot, ok := letterSlot(letter)
	if !ok {
		return ErrInvalidLetter
	}
	d.registers[slot] = []byte(data)
	return nil
}

// RegisterAppend adds data to the end of a register.
func (d *Document) RegisterAppend(letter byte, data string) error {
	slot, ok := letterSlot(letter)
	if !ok {
		return ErrInvalidLetter
	}
	d.registers[slot] = append(d.registers[slot], data...)
	return nil
}

// RegisterPrepend adds data to the start of a register.
func (d *Document) RegisterPrepend(letter byte, data string) error {
	slot, ok := letterSlot(letter)
	if !ok {
		return ErrInvalidLetter
	}
	buf := make([]byte, 0, len(data)+len(d.registers[slot]))
	buf = append(buf, data...)
	d.registers[slot] = append(buf, d.registers[slot]...)
	return nil
}

// RegisterClear empties a register.
func (d *Document) RegisterClear(letter byte) error {
	slot, ok := letterSlot(letter)
	if !ok {
		return ErrInvalidLetter
	}
	d.registers[slot] = nil
	return nil
}
