package errz

// ErrorCode represents a unique identifier for error types. Emission errors
// use the E4xxx range.
type ErrorCode string

const (
	E4001 ErrorCode = "E4001" // Unsupported conversion
	E4002 ErrorCode = "E4002" // Unresolved operation
	E4003 ErrorCode = "E4003" // Label never placed
	E4004 ErrorCode = "E4004" // Label placed more than once
	E4005 ErrorCode = "E4005" // Construct not lowered
	E4006 ErrorCode = "E4006" // Unknown variable
	E4007 ErrorCode = "E4007" // Break outside loop
	E4008 ErrorCode = "E4008" // Continue outside loop
	E4009 ErrorCode = "E4009" // Branch target out of range
	E4010 ErrorCode = "E4010" // Invalid operand
	E4011 ErrorCode = "E4011" // Pointer arithmetic outside unsafe context
	E4012 ErrorCode = "E4012" // Unbalanced scope markers
	E4013 ErrorCode = "E4013" // Missing return value
)

var codeDescriptions = map[ErrorCode]string{
	E4001: "unsupported conversion",
	E4002: "unresolved operation",
	E4003: "label never placed",
	E4004: "label placed more than once",
	E4005: "construct not lowered",
	E4006: "unknown variable",
	E4007: "break outside loop",
	E4008: "continue outside loop",
	E4009: "branch target out of range",
	E4010: "invalid operand",
	E4011: "pointer arithmetic outside unsafe context",
	E4012: "unbalanced scope markers",
	E4013: "not all code paths return a value",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}
