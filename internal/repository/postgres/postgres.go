// Package postgres implements repository.AccountRepository against a
// PostgreSQL schema (spec §6.5) using database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kevinkouketsu/odin-emulator/internal/domain"
	"github.com/kevinkouketsu/odin-emulator/internal/repository"
)

// Repository is a database/sql-backed AccountRepository. A *sql.DB pools
// its own connections, so one Repository is safe for concurrent sessions.
type Repository struct {
	db *sql.DB
}

// Open connects to databaseURL via the pgx stdlib driver.
func Open(databaseURL string) (*Repository, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

var _ repository.AccountRepository = (*Repository)(nil)

func (r *Repository) FetchAccount(ctx context.Context, username string) (domain.AccountCharlist, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, cash, access, storage_coin, token
		FROM account
		WHERE lower(username) = lower($1)
	`, username)

	var acc domain.Account
	var token sql.NullString
	var access int32
	if err := row.Scan(&acc.ID, &acc.Username, &acc.Password, &acc.Cash, &access, &acc.StorageCoin, &token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AccountCharlist{}, false, nil
		}
		return domain.AccountCharlist{}, false, fmt.Errorf("%w: fetch account: %v", repository.ErrFailToLoad, err)
	}
	acc.Access = domain.NewAccessLevel(access)
	if token.Valid {
		acc.Token = &token.String
	}

	ban, err := r.fetchBan(ctx, acc.ID)
	if err != nil {
		return domain.AccountCharlist{}, false, err
	}
	acc.Ban = ban

	charlist, err := r.FetchCharlist(ctx, acc.ID)
	if err != nil {
		return domain.AccountCharlist{}, false, err
	}

	return domain.AccountCharlist{Account: acc, Charlist: charlist}, true, nil
}

func (r *Repository) fetchBan(ctx context.Context, accountID uuid.UUID) (*domain.Ban, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT expires_at, type FROM account_ban WHERE account_id = $1
	`, accountID)

	var ban domain.Ban
	var banType string
	if err := row.Scan(&ban.ExpiresAt, &banType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: fetch ban: %v", repository.ErrFailToLoad, err)
	}
	if banType == "blocked" {
		ban.Type = domain.BanBlocked
	} else {
		ban.Type = domain.BanAnalysis
	}
	return &ban, nil
}

func (r *Repository) FetchCharlist(ctx context.Context, accountID uuid.UUID) ([]domain.CharlistSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slot, name, last_pos, coin, experience, guild_id,
		       level, defense_v, damage_v, reserved, attack_run,
		       max_hp, max_mp, current_hp, current_mp,
		       strength, intelligence, dexterity, constitution,
		       special_0, special_1, special_2, special_3
		FROM character
		WHERE account_id = $1
		ORDER BY slot
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch charlist: %v", repository.ErrFailToLoad, err)
	}
	defer rows.Close()

	var out []domain.CharlistSlot
	for rows.Next() {
		var id uuid.UUID
		var slot int
		var name, lastPos string
		var coin uint32
		var experience int64
		var guildID sql.NullInt32
		var score domain.Score
		var reserved, attackRun int8

		if err := rows.Scan(
			&id, &slot, &name, &lastPos, &coin, &experience, &guildID,
			&score.Level, &score.Defense, &score.Damage, &reserved, &attackRun,
			&score.MaxHP, &score.MaxMP, &score.HP, &score.MP,
			&score.Strength, &score.Intelligence, &score.Dexterity, &score.Constitution,
			&score.Specials[0], &score.Specials[1], &score.Specials[2], &score.Specials[3],
		); err != nil {
			return nil, fmt.Errorf("%w: scan charlist row: %v", repository.ErrFailToLoad, err)
		}
		score.Reserved = reserved
		score.AttackRun = attackRun

		pos, err := domain.ParsePosition(lastPos)
		if err != nil {
			return nil, fmt.Errorf("%w: parse position: %v", repository.ErrGeneric, err)
		}

		info := domain.CharacterInfo{
			ID:         id,
			Name:       name,
			Position:   pos,
			Score:      score,
			Coin:       coin,
			Experience: experience,
		}
		if guildID.Valid {
			v := uint16(guildID.Int32)
			info.GuildID = &v
		}

		equipments, err := r.fetchEquipments(ctx, id)
		if err != nil {
			return nil, err
		}
		info.Equipments = equipments

		out = append(out, domain.CharlistSlot{Slot: slot, Character: info})
	}
	return out, rows.Err()
}

func (r *Repository) fetchEquipments(ctx context.Context, characterID uuid.UUID) ([domain.MaxEquipmentSlots]domain.Item, error) {
	var out [domain.MaxEquipmentSlots]domain.Item

	rows, err := r.db.QueryContext(ctx, `
		SELECT slot, item_id, effect_index0, effect_value0, effect_index1, effect_value1, effect_index2, effect_value2
		FROM item
		WHERE character_id = $1 AND category = 'equip' AND slot < $2
	`, characterID, domain.MaxEquipmentSlots)
	if err != nil {
		return out, fmt.Errorf("%w: fetch equipments: %v", repository.ErrFailToLoad, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot int
		var item domain.Item
		if err := rows.Scan(
			&slot, &item.ID,
			&item.Effects[0].Index, &item.Effects[0].Value,
			&item.Effects[1].Index, &item.Effects[1].Value,
			&item.Effects[2].Index, &item.Effects[2].Value,
		); err != nil {
			return out, fmt.Errorf("%w: scan equipment row: %v", repository.ErrFailToLoad, err)
		}
		if slot >= 0 && slot < domain.MaxEquipmentSlots {
			out[slot] = item
		}
	}
	return out, rows.Err()
}

func (r *Repository) FetchCharacter(ctx context.Context, accountID uuid.UUID, slot int) (domain.Character, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, class, evolution, last_pos, coin, experience, guild_id, guild_level,
		       level, defense_v, damage_v, reserved, attack_run,
		       max_hp, max_mp, current_hp, current_mp,
		       strength, intelligence, dexterity, constitution,
		       special_0, special_1, special_2, special_3, name
		FROM character
		WHERE account_id = $1 AND slot = $2
	`, accountID, slot)

	var c domain.Character
	var classStr string
	var evolution int32
	var lastPos string
	var guildID sql.NullInt32
	var reserved, attackRun int8

	err := row.Scan(
		&c.ID, &classStr, &evolution, &lastPos, &c.Coin, &c.Experience, &guildID, &c.GuildLevel,
		&c.Score.Level, &c.Score.Defense, &c.Score.Damage, &reserved, &attackRun,
		&c.Score.MaxHP, &c.Score.MaxMP, &c.Score.HP, &c.Score.MP,
		&c.Score.Strength, &c.Score.Intelligence, &c.Score.Dexterity, &c.Score.Constitution,
		&c.Score.Specials[0], &c.Score.Specials[1], &c.Score.Specials[2], &c.Score.Specials[3], &c.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Character{}, false, nil
		}
		return domain.Character{}, false, fmt.Errorf("%w: fetch character: %v", repository.ErrFailToLoad, err)
	}

	c.AccountID = accountID
	c.Slot = slot
	c.Evolution = domain.Evolution(evolution)
	c.Score.Reserved = reserved
	c.Score.AttackRun = attackRun
	if guildID.Valid {
		v := uint16(guildID.Int32)
		c.GuildID = &v
	}
	pos, err := domain.ParsePosition(lastPos)
	if err != nil {
		return domain.Character{}, false, fmt.Errorf("%w: parse position: %v", repository.ErrGeneric, err)
	}
	c.Position = pos

	class, err := classFromColumn(classStr)
	if err != nil {
		return domain.Character{}, false, fmt.Errorf("%w: %v", repository.ErrGeneric, err)
	}
	c.Class = class

	equipments, err := r.fetchEquipments(ctx, c.ID)
	if err != nil {
		return domain.Character{}, false, err
	}
	c.Equipments = domain.NewEquipments(equipments)

	inventory, err := r.fetchInventory(ctx, c.ID)
	if err != nil {
		return domain.Character{}, false, err
	}
	c.Inventory = inventory

	return c, true, nil
}

func (r *Repository) fetchInventory(ctx context.Context, characterID uuid.UUID) (domain.Inventory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT slot, item_id FROM item WHERE character_id = $1 AND category = 'inventory'
	`, characterID)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("%w: fetch inventory: %v", repository.ErrFailToLoad, err)
	}
	defer rows.Close()

	entries := make(map[int]domain.Item)
	for rows.Next() {
		var slot int
		var itemID uint16
		if err := rows.Scan(&slot, &itemID); err != nil {
			return domain.Inventory{}, fmt.Errorf("%w: scan inventory row: %v", repository.ErrFailToLoad, err)
		}
		entries[slot] = domain.NewItem(itemID)
	}
	return domain.NewInventory(entries), rows.Err()
}

func (r *Repository) CreateCharacter(ctx context.Context, accountID uuid.UUID, slot int, name domain.Nickname, class domain.Class) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: begin tx: %v", repository.ErrGeneric, err)
	}
	defer tx.Rollback()

	classColumn, err := classToColumn(class)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", repository.ErrCharacterNotValid, err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT level, defense_v, damage_v, reserved, attack_run, max_hp, max_mp, current_hp, current_mp,
		       strength, intelligence, dexterity, constitution,
		       special_0, special_1, special_2, special_3, coin, experience, last_pos
		FROM character
		WHERE account_id IS NULL AND class = $1
	`, classColumn)

	var template domain.Score
	var reserved, attackRun int8
	var coin uint32
	var experience int64
	var lastPos string
	if err := row.Scan(
		&template.Level, &template.Defense, &template.Damage, &reserved, &attackRun,
		&template.MaxHP, &template.MaxMP, &template.HP, &template.MP,
		&template.Strength, &template.Intelligence, &template.Dexterity, &template.Constitution,
		&template.Specials[0], &template.Specials[1], &template.Specials[2], &template.Specials[3],
		&coin, &experience, &lastPos,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%w: no class template for %s", repository.ErrEntityNotFound, class)
		}
		return uuid.Nil, fmt.Errorf("%w: fetch template: %v", repository.ErrFailToLoad, err)
	}
	template.Reserved = reserved
	template.AttackRun = attackRun

	var characterID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO character (
			account_id, slot, name, class, evolution, last_pos, coin, experience,
			level, defense_v, damage_v, reserved, attack_run, max_hp, max_mp, current_hp, current_mp,
			strength, intelligence, dexterity, constitution, special_0, special_1, special_2, special_3
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25
		)
		RETURNING id
	`,
		accountID, slot, name.String(), classColumn, int32(domain.Mortal), lastPos, coin, experience,
		template.Level, template.Defense, template.Damage, template.Reserved, template.AttackRun,
		template.MaxHP, template.MaxMP, template.HP, template.MP,
		template.Strength, template.Intelligence, template.Dexterity, template.Constitution,
		template.Specials[0], template.Specials[1], template.Specials[2], template.Specials[3],
	).Scan(&characterID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: insert character: %v", repository.ErrGeneric, err)
	}

	startItems, err := tx.QueryContext(ctx, `
		SELECT slot, type, item_id FROM start_item WHERE class = $1
	`, classColumn)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: fetch start items: %v", repository.ErrFailToLoad, err)
	}
	type startItem struct {
		slot     int
		category string
		itemID   int
	}
	var items []startItem
	for startItems.Next() {
		var si startItem
		if err := startItems.Scan(&si.slot, &si.category, &si.itemID); err != nil {
			startItems.Close()
			return uuid.Nil, fmt.Errorf("%w: scan start item: %v", repository.ErrFailToLoad, err)
		}
		items = append(items, si)
	}
	startItems.Close()

	for _, si := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item (character_id, category, slot, item_id)
			VALUES ($1, $2, $3, $4)
		`, characterID, si.category, si.slot, si.itemID); err != nil {
			return uuid.Nil, fmt.Errorf("%w: insert start item: %v", repository.ErrGeneric, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: commit: %v", repository.ErrGeneric, err)
	}
	return characterID, nil
}

func (r *Repository) DeleteCharacter(ctx context.Context, accountID uuid.UUID, slot int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", repository.ErrGeneric, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM character WHERE account_id = $1 AND slot = $2
	`, accountID, slot)
	if err != nil {
		return fmt.Errorf("%w: delete character: %v", repository.ErrGeneric, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", repository.ErrGeneric, err)
	}
	if affected == 0 {
		return repository.ErrEntityNotFound
	}

	return tx.Commit()
}

func (r *Repository) NameExists(ctx context.Context, name domain.Nickname) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM character WHERE lower(name) = lower($1) AND account_id IS NOT NULL)
	`, name.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: name exists: %v", repository.ErrFailToLoad, err)
	}
	return exists, nil
}

func (r *Repository) CheckPassword(ctx context.Context, accountID uuid.UUID, password string) (bool, error) {
	var stored string
	err := r.db.QueryRowContext(ctx, `SELECT password FROM account WHERE id = $1`, accountID).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, repository.ErrEntityNotFound
		}
		return false, fmt.Errorf("%w: check password: %v", repository.ErrFailToLoad, err)
	}
	return stored == password, nil
}

func (r *Repository) GetToken(ctx context.Context, accountID uuid.UUID) (*string, error) {
	var token sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT token FROM account WHERE id = $1`, accountID).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrEntityNotFound
		}
		return nil, fmt.Errorf("%w: get token: %v", repository.ErrFailToLoad, err)
	}
	if !token.Valid {
		return nil, nil
	}
	return &token.String, nil
}

func (r *Repository) UpdateToken(ctx context.Context, accountID uuid.UUID, token *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account SET token = $1 WHERE id = $2`, token, accountID)
	if err != nil {
		return fmt.Errorf("%w: update token: %v", repository.ErrGeneric, err)
	}
	return nil
}

func classToColumn(c domain.Class) (string, error) {
	switch c {
	case domain.TransKnight:
		return "trans_knight", nil
	case domain.Foema:
		return "foema", nil
	case domain.BeastMaster:
		return "beast_master", nil
	case domain.Huntress:
		return "huntress", nil
	default:
		return "", fmt.Errorf("unknown class %d", c)
	}
}

func classFromColumn(s string) (domain.Class, error) {
	switch s {
	case "trans_knight":
		return domain.TransKnight, nil
	case "foema":
		return domain.Foema, nil
	case "beast_master":
		return domain.BeastMaster, nil
	case "huntress":
		return domain.Huntress, nil
	default:
		return 0, fmt.Errorf("unknown class column %q", s)
	}
}
