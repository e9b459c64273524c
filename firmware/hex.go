package firmware

const HEX_DIGITS = "0123456789ABCDEF"

// HexNibble converts the low four bits of value to an uppercase digit.
func HexNibble(value uint8) byte {
	return HEX_DIGITS[value&0xf]
}

// HexByte converts value to two uppercase digits.
func HexByte(value uint8) (hi, lo byte) {
	return HexNibble(value >> 4), HexNibble(value)
}

// SendHex8 prints value as two hex digits.
func (fw *Firmware) SendHex8(value uint8) {
	hi, lo := HexByte(value)
	fw.Uart.SendByte(hi)
	fw.Uart.SendByte(lo)
}

// SendBytes prints a byte buffer as-is.
func (fw *Firmware) SendBytes(data []byte) {
	for _, value := range data {
		fw.Uart.SendByte(value)
	}
}

// SendDump prints data as space separated hex bytes, 16 to a line.
func (fw *Firmware) SendDump(read func(n int) uint8, length int) {
	for n := range length {
		fw.SendHex8(read(n))
		if n%16 == 15 || n == length-1 {
			fw.Uart.SendString(CRLF)
		} else {
			fw.Uart.SendByte(' ')
		}
	}
}
