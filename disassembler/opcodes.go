package disassembler

// Opcode words and base patterns the decoder dispatches on. Bases have
// their size, register and condition fields cleared.
const (
	// Logical and bit manipulation
	OPAND       = 0xC000
	OPOR        = 0x8000
	OPANDI      = 0x0200
	OPORI       = 0x0000
	OPEORI      = 0x0A00
	OPANDItoCCR = 0x023C
	OPORItoCCR  = 0x003C
	OPEORItoCCR = 0x0A3C
	OPANDItoSR  = 0x027C
	OPORItoSR   = 0x007C
	OPEORItoSR  = 0x0A7C
	OPNOT       = 0x4600
	OPCLR       = 0x4200
	OPTST       = 0x4A00
	OPNEG       = 0x4400
	OPNEGX      = 0x4000
	OPNBCD      = 0x4800
	OPSWAP      = 0x4840

	// Arithmetic
	OPADDQ = 0x5000
	OPADDI = 0x0600
	OPADDX = 0xD100
	OPSUBI = 0x0400
	OPSUBX = 0x9100
	OPMULS = 0xC1C0
	OPMULU = 0xC0C0
	OPDIVS = 0x81C0
	OPDIVU = 0x80C0

	// Comparison
	OPCMPI = 0x0C00

	// Shift and rotate
	OPShiftRotateBase = 0xE000

	// Moves
	OPMOVE        = 0x0000
	OPMOVEQ       = 0x7000
	OPMOVEFromSR  = 0x40C0
	OPMOVEToSR    = 0x46C0
	OPMOVEToCCR   = 0x44C0
	OPMOVEFromUSP = 0x4E68
	OPMOVEToUSP   = 0x4E60

	// Address calculation and stack
	OPPEA  = 0x4840
	OPLEA  = 0x41C0
	OPLINK = 0x4E50
	OPUNLK = 0x4E58

	// Control
	OPTRAP    = 0x4E40
	OPTRAPV   = 0x4E76
	OPRTE     = 0x4E73
	OPSTOP    = 0x4E72
	OPRESET   = 0x4E70
	OPNOP     = 0x4E71
	OPILLEGAL = 0x4AFC
	OPRTS     = 0x4E75
	OPRTR     = 0x4E77
	OPTAS     = 0x4AC0

	// Conditionals
	OPScc  = 0x50C0
	OPDBcc = 0x50C8

	// Branches
	OPBRA = 0x6000
	OPBSR = 0x6100

	// Jumps
	OPJMP = 0x4EC0
	OPJSR = 0x4E80
)
