package il

// Metadata token tables. The high byte of a token selects the table and
// the low 24 bits hold a one-based row index.
const (
	TokenField  = 0x04
	TokenMethod = 0x06
	TokenString = 0x70
)

// MakeToken combines a table and a one-based row.
func MakeToken(table uint8, row int) uint32 {
	return uint32(table)<<24 | uint32(row)&0x00FFFFFF
}

// TokenTable returns the table byte of a token.
func TokenTable(token uint32) uint8 {
	return uint8(token >> 24)
}

// TokenRow returns the one-based row of a token.
func TokenRow(token uint32) int {
	return int(token & 0x00FFFFFF)
}
