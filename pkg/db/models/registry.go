package models

// All lists every persisted model in dependency order. Used to build the
// schema on SQLite where the goose SQL migrations do not apply.
func All() []any {
	return []any{
		&User{},
		&InventoryItem{},
		&Sale{},
		&CartItem{},
		&Dispatch{},
		&Payment{},
		&Sucursal{},
		&Boleta{},
		&BoletaLine{},
	}
}
