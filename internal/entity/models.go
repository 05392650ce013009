package entity

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&SecurityLog{},
		&Contact{},
		&CartRequest{},
		&CartRequestItem{},
		&Product{},
	}
}
