package models

// All returns every persisted model, in the order AutoMigrate should see them.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&GarmentType{},
		&MeasurementTemplate{},
		&Measurement{},
		&MeasurementHistory{},
		&Order{},
		&OrderLine{},
		&ExtraMaterial{},
		&Payment{},
		&StatusHistory{},
		&IDSequence{},
		&NotificationLog{},
	}
}
