package wire

// Client-to-server opcodes (spec §4.4).
const (
	OpLogin           uint16 = 0x784
	OpToken           uint16 = 0xFDE
	OpCreateCharacter uint16 = 0x20F
	OpDeleteCharacter uint16 = 0x211
	OpEnterWorld      uint16 = 0x1F0
)

// Server-to-client opcodes (spec §4.4). CorrectNumericToken shares its
// value with the client's Token opcode, matching the source material;
// CreatedCharacter shares UpdateCharlist's value since both push a fresh
// roster snapshot.
const (
	OpMessagePanel               uint16 = 0x101
	OpFirstCharlist              uint16 = 0x10A
	OpUpdateCharlist             uint16 = 0x110
	OpCorrectNumericToken        uint16 = 0xFDE
	OpIncorrectNumericToken      uint16 = 0xFDF
	OpCreatedCharacter           uint16 = 0x110
	OpDeleteCharacterAck         uint16 = 0x112
	OpCharacterNameAlreadyExists uint16 = 0x11A
)
