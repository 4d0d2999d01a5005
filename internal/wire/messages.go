package wire

import (
	"errors"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
)

// ErrShortPayload is returned by a Decode function when the payload is
// too short for the wire struct being decoded.
var ErrShortPayload = errors.New("wire: payload too short for message")

// Fixed widths used throughout the message registry (spec §4.4).
const (
	FixedStringWidth16  = 16
	FixedStringWidth128 = 128

	MaxCharlistSlots          = 4
	MaxCharlistEquipmentSlots = 18 // wire-level slot count, wider than domain.MaxEquipmentSlots
	MaxStorageItems           = 160
)

// ItemRaw is the 8-byte wire layout of a single item: id plus three
// (index, value) bonus effect pairs.
type ItemRaw struct {
	ID      uint16
	Effects [domain.MaxItemEffects][2]uint8
}

func (it ItemRaw) encode(w *writer) {
	w.u16(it.ID)
	for _, e := range it.Effects {
		w.u8(e[0])
		w.u8(e[1])
	}
}

func decodeItemRaw(r *reader) (ItemRaw, bool) {
	var it ItemRaw
	var ok bool
	if it.ID, ok = r.u16(); !ok {
		return ItemRaw{}, false
	}
	for i := range it.Effects {
		idx, ok1 := r.u8()
		val, ok2 := r.u8()
		if !ok1 || !ok2 {
			return ItemRaw{}, false
		}
		it.Effects[i] = [2]uint8{idx, val}
	}
	return it, true
}

func itemFromDomain(item domain.Item) ItemRaw {
	raw := ItemRaw{ID: item.ID}
	for i, e := range item.Effects {
		raw.Effects[i] = [2]uint8{e.Index, e.Value}
	}
	return raw
}

// ScoreRaw is the 48-byte wire layout of a character's combat stats
// (spec §3/§4.4), including the two 2-byte alignment gaps the source
// struct's natural field packing leaves around reserved/attack_run.
type ScoreRaw struct {
	Score domain.Score
}

func (s ScoreRaw) encode(w *writer) {
	sc := s.Score
	w.u16(sc.Level)
	w.u16(0) // alignment padding
	w.u32(sc.Defense)
	w.u32(sc.Damage)
	w.i8(sc.Reserved)
	w.i8(sc.AttackRun)
	w.u16(0) // alignment padding
	w.u32(sc.MaxHP)
	w.u32(sc.MaxMP)
	w.u32(sc.HP)
	w.u32(sc.MP)
	w.u16(sc.Strength)
	w.u16(sc.Intelligence)
	w.u16(sc.Dexterity)
	w.u16(sc.Constitution)
	for _, v := range sc.Specials {
		w.u16(v)
	}
}

func decodeScoreRaw(r *reader) (domain.Score, bool) {
	var sc domain.Score
	var ok bool
	if sc.Level, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if _, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if sc.Defense, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.Damage, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.Reserved, ok = r.i8(); !ok {
		return domain.Score{}, false
	}
	if sc.AttackRun, ok = r.i8(); !ok {
		return domain.Score{}, false
	}
	if _, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if sc.MaxHP, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.MaxMP, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.HP, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.MP, ok = r.u32(); !ok {
		return domain.Score{}, false
	}
	if sc.Strength, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if sc.Intelligence, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if sc.Dexterity, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	if sc.Constitution, ok = r.u16(); !ok {
		return domain.Score{}, false
	}
	for i := range sc.Specials {
		if sc.Specials[i], ok = r.u16(); !ok {
			return domain.Score{}, false
		}
	}
	return sc, true
}

// LoginRaw is the client Login packet payload (spec §4.4).
type LoginRaw struct {
	Password string
	Username string
	TID      [52]byte
	CliVer   uint32
	Force    uint32
	MAC      [16]byte
}

// DecodeLoginRaw decodes a Login payload.
func DecodeLoginRaw(payload []byte) (LoginRaw, error) {
	r := newReader(payload)
	var m LoginRaw
	var ok bool
	if m.Password, ok = r.fixedString(FixedStringWidth16); !ok {
		return LoginRaw{}, ErrShortPayload
	}
	if m.Username, ok = r.fixedString(FixedStringWidth16); !ok {
		return LoginRaw{}, ErrShortPayload
	}
	tid, ok := r.take(52)
	if !ok {
		return LoginRaw{}, ErrShortPayload
	}
	copy(m.TID[:], tid)
	if m.CliVer, ok = r.u32(); !ok {
		return LoginRaw{}, ErrShortPayload
	}
	if m.Force, ok = r.u32(); !ok {
		return LoginRaw{}, ErrShortPayload
	}
	mac, ok := r.take(16)
	if !ok {
		return LoginRaw{}, ErrShortPayload
	}
	copy(m.MAC[:], mac)
	return m, nil
}

// DecodedCliVer recovers the plaintext client version from the obfuscated
// wire value (spec §4.6): cliver = enc >> (((enc & 28) >> 2) + 5).
func (m LoginRaw) DecodedCliVer() uint32 {
	shift := ((m.CliVer & 28) >> 2) + 5
	return m.CliVer >> shift
}

// NumericTokenRaw is the client Token packet payload.
type NumericTokenRaw struct {
	Token string
	State uint32
}

func DecodeNumericTokenRaw(payload []byte) (NumericTokenRaw, error) {
	r := newReader(payload)
	var m NumericTokenRaw
	var ok bool
	if m.Token, ok = r.fixedString(FixedStringWidth16); !ok {
		return NumericTokenRaw{}, ErrShortPayload
	}
	if m.State, ok = r.u32(); !ok {
		return NumericTokenRaw{}, ErrShortPayload
	}
	return m, nil
}

// Changing reports whether the client is requesting a token change.
func (m NumericTokenRaw) Changing() bool { return m.State != 0 }

// EncodeNumericTokenRaw encodes a server NumericToken reply.
func EncodeNumericTokenRaw(token string, state uint32) ([]byte, error) {
	w := &writer{}
	if err := w.fixedString(token, FixedStringWidth16); err != nil {
		return nil, err
	}
	w.u32(state)
	return w.buf, nil
}

// CreateCharacterRaw is the client CreateCharacter packet payload.
type CreateCharacterRaw struct {
	Slot  uint32
	Name  string
	Class int32
}

func DecodeCreateCharacterRaw(payload []byte) (CreateCharacterRaw, error) {
	r := newReader(payload)
	var m CreateCharacterRaw
	var ok bool
	if m.Slot, ok = r.u32(); !ok {
		return CreateCharacterRaw{}, ErrShortPayload
	}
	if m.Name, ok = r.fixedString(FixedStringWidth16); !ok {
		return CreateCharacterRaw{}, ErrShortPayload
	}
	class, ok := r.u32()
	if !ok {
		return CreateCharacterRaw{}, ErrShortPayload
	}
	m.Class = int32(class)
	return m, nil
}

// DeleteCharacterRaw is the client DeleteCharacter packet payload.
type DeleteCharacterRaw struct {
	Slot     uint32
	Name     string
	Password string
}

func DecodeDeleteCharacterRaw(payload []byte) (DeleteCharacterRaw, error) {
	r := newReader(payload)
	var m DeleteCharacterRaw
	var ok bool
	if m.Slot, ok = r.u32(); !ok {
		return DeleteCharacterRaw{}, ErrShortPayload
	}
	if m.Name, ok = r.fixedString(FixedStringWidth16); !ok {
		return DeleteCharacterRaw{}, ErrShortPayload
	}
	if m.Password, ok = r.fixedString(FixedStringWidth16); !ok {
		return DeleteCharacterRaw{}, ErrShortPayload
	}
	return m, nil
}

// EnterWorldRaw is the client EnterWorld packet payload.
type EnterWorldRaw struct {
	Slot       uint32
	Force      uint32
	SecretCode string
}

func DecodeEnterWorldRaw(payload []byte) (EnterWorldRaw, error) {
	r := newReader(payload)
	var m EnterWorldRaw
	var ok bool
	if m.Slot, ok = r.u32(); !ok {
		return EnterWorldRaw{}, ErrShortPayload
	}
	if m.Force, ok = r.u32(); !ok {
		return EnterWorldRaw{}, ErrShortPayload
	}
	if m.SecretCode, ok = r.fixedString(FixedStringWidth16); !ok {
		return EnterWorldRaw{}, ErrShortPayload
	}
	return m, nil
}

// EncodeMessagePanelRaw encodes a localized text panel. The server always
// sends client_id=0 on this message (spec §3); the caller is responsible
// for passing that override into the codec.
func EncodeMessagePanelRaw(text string) ([]byte, error) {
	w := &writer{}
	if err := w.fixedString(text, FixedStringWidth128); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// CharlistInfoRaw is the four-slot roster snapshot shared by FirstCharlist
// and UpdateCharlist (spec §4.4). Empty slots are zeroed.
type CharlistInfoRaw struct {
	Slots [MaxCharlistSlots]CharlistSlotRaw
}

// CharlistSlotRaw is one logical slot's worth of the parallel arrays that
// CharlistInfoRaw actually serializes on the wire.
type CharlistSlotRaw struct {
	HomeTownX  uint16
	HomeTownY  uint16
	Name       string
	Score      domain.Score
	Equipments [MaxCharlistEquipmentSlots]ItemRaw
	Guild      uint16
	Coin       uint32
	Experience int64
}

func (c CharlistInfoRaw) encode(w *writer) error {
	for _, s := range c.Slots {
		w.u16(s.HomeTownX)
	}
	for _, s := range c.Slots {
		w.u16(s.HomeTownY)
	}
	for _, s := range c.Slots {
		if err := w.fixedString(s.Name, FixedStringWidth16); err != nil {
			return err
		}
	}
	for _, s := range c.Slots {
		ScoreRaw{Score: s.Score}.encode(w)
	}
	for _, s := range c.Slots {
		for _, it := range s.Equipments {
			it.encode(w)
		}
	}
	for _, s := range c.Slots {
		w.u16(s.Guild)
	}
	for _, s := range c.Slots {
		w.u32(s.Coin)
	}
	for _, s := range c.Slots {
		w.i64(s.Experience)
	}
	return nil
}

// CharlistInfoFromRoster projects up to MaxCharlistSlots domain character
// summaries, keyed by slot, into the wire's parallel-array shape.
func CharlistInfoFromRoster(roster map[int]domain.CharacterInfo) CharlistInfoRaw {
	var out CharlistInfoRaw
	for slot := 0; slot < MaxCharlistSlots; slot++ {
		info, present := roster[slot]
		if !present {
			continue
		}
		var equip [MaxCharlistEquipmentSlots]ItemRaw
		for i := 0; i < domain.MaxEquipmentSlots && i < MaxCharlistEquipmentSlots; i++ {
			equip[i] = itemFromDomain(info.Equipments[i])
		}
		var guild uint16
		if info.GuildID != nil {
			guild = *info.GuildID
		}
		out.Slots[slot] = CharlistSlotRaw{
			HomeTownX:  info.Position.X,
			HomeTownY:  info.Position.Y,
			Name:       info.Name,
			Score:      info.Score,
			Equipments: equip,
			Guild:      guild,
			Coin:       info.Coin,
			Experience: info.Experience,
		}
	}
	return out
}

// EncodeUpdateCharlistRaw encodes the UpdateCharlist payload, a bare
// CharlistInfoRaw.
func EncodeUpdateCharlistRaw(info CharlistInfoRaw) ([]byte, error) {
	w := &writer{}
	if err := info.encode(w); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// FirstCharlistRaw is the full post-login payload: proof token, roster,
// account-level storage, and account metadata.
type FirstCharlistRaw struct {
	Token        [16]byte
	Charlist     CharlistInfoRaw
	StorageItems [MaxStorageItems]ItemRaw
	StorageCoin  uint64
	AccountName  string
	SSN1         uint32
	SSN2         uint32
}

// EncodeFirstCharlistRaw encodes the FirstCharlist payload. Per spec §9's
// open question, Token is always sent as 16 zero bytes.
func EncodeFirstCharlistRaw(m FirstCharlistRaw) ([]byte, error) {
	w := &writer{}
	w.raw(m.Token[:])
	if err := m.Charlist.encode(w); err != nil {
		return nil, err
	}
	for _, it := range m.StorageItems {
		it.encode(w)
	}
	w.u64(m.StorageCoin)
	if err := w.fixedString(m.AccountName, FixedStringWidth16); err != nil {
		return nil, err
	}
	w.u32(m.SSN1)
	w.u32(m.SSN2)
	return w.buf, nil
}
