package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharacterCanDeleteToleratesFaceAndMantle(t *testing.T) {
	var equipped [MaxEquipmentSlots]Item
	equipped[SlotFace] = NewItem(11)
	equipped[SlotMantle] = NewItem(737)

	c := Character{
		Coin:       0,
		Evolution:  Mortal,
		Equipments: NewEquipments(equipped),
		Inventory:  NewInventory(nil),
	}

	require.True(t, c.CanDelete())
}

func TestCharacterCanDeleteRejectsNonEmptyInventory(t *testing.T) {
	c := Character{
		Coin:      0,
		Evolution: Mortal,
		Inventory: NewInventory(map[int]Item{0: NewItem(11)}),
	}

	require.False(t, c.CanDelete())
}

func TestCharacterCanDeleteRejectsOtherEquippedSlots(t *testing.T) {
	var equipped [MaxEquipmentSlots]Item
	equipped[SlotHelmet] = NewItem(5)

	c := Character{
		Coin:       0,
		Evolution:  Mortal,
		Equipments: NewEquipments(equipped),
		Inventory:  NewInventory(nil),
	}

	require.False(t, c.CanDelete())
}

func TestCharacterCanDeleteRejectsNonMortal(t *testing.T) {
	c := Character{
		Coin:      0,
		Evolution: Arch,
		Inventory: NewInventory(nil),
	}

	require.False(t, c.CanDelete())
}

func TestCharacterCanDeleteRejectsOutstandingCoin(t *testing.T) {
	c := Character{
		Coin:      1,
		Evolution: Mortal,
		Inventory: NewInventory(nil),
	}

	require.False(t, c.CanDelete())
}
