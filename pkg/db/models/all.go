package models

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&HSN{},
		&Item{},
		&Vendor{},
		&PurchaseOrder{},
		&PurchaseOrderLine{},
		&GRN{},
		&GRNLine{},
		&StockEntry{},
		&Sale{},
		&SaleLine{},
		&DocumentSequence{},
	}
}
