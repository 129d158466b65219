package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&User{},
	// Shop
	&Category{},
	&Product{},
	&Order{},
	&OrderItem{},
}
