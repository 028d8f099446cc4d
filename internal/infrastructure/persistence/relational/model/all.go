package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Lead{},
		&Inspection{},
		&Area{},
		&MoistureReading{},
		&SubfloorReading{},
		&Photo{},
		&JobSequence{},
		&KV{},
	}
}
